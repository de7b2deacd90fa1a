package witness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/funvibe/typeref/internal/refdoc"
	"github.com/funvibe/typeref/internal/typeref"
)

const schema = `
CREATE TABLE IF NOT EXISTS witnesses (
	nominal         TEXT NOT NULL,
	protocol_module TEXT NOT NULL,
	protocol        TEXT NOT NULL,
	member          TEXT NOT NULL,
	witness         TEXT NOT NULL,
	batch           TEXT NOT NULL,
	PRIMARY KEY (nominal, protocol_module, protocol, member)
)`

// Store persists witnesses in a SQLite database. Witness types are stored as
// YAML refdoc nodes and rebuilt in the caller's Builder on lookup.
type Store struct {
	db *sql.DB
}

// Entry is one stored witness.
type Entry struct {
	Key     Key
	Witness *refdoc.Node
	Batch   string
}

// Open opens or creates the store at path. Use ":memory:" for a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening witness store %s: %w", path, err)
	}
	// An in-memory database lives as long as its only connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing witness store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const upsert = `
INSERT INTO witnesses (nominal, protocol_module, protocol, member, witness, batch)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (nominal, protocol_module, protocol, member)
DO UPDATE SET witness = excluded.witness, batch = excluded.batch`

// Put records a single witness under its own batch id.
func (s *Store) Put(ctx context.Context, k Key, witness typeref.TypeRef) error {
	data, err := refdoc.EncodeYAML(witness)
	if err != nil {
		return fmt.Errorf("encoding witness %s: %w", k, err)
	}
	if _, err := s.db.ExecContext(ctx, upsert,
		k.Nominal, k.ProtocolModule, k.Protocol, k.Member, string(data), uuid.NewString()); err != nil {
		return fmt.Errorf("storing witness %s: %w", k, err)
	}
	return nil
}

// Import writes every witness of t in one transaction and returns the batch
// id stamped on the rows.
func (s *Store) Import(ctx context.Context, t *Table) (uuid.UUID, error) {
	type row struct {
		key  Key
		data []byte
	}
	var rows []row
	var encErr error
	t.Each(func(k Key, w typeref.TypeRef) {
		if encErr != nil {
			return
		}
		data, err := refdoc.EncodeYAML(w)
		if err != nil {
			encErr = fmt.Errorf("encoding witness %s: %w", k, err)
			return
		}
		rows = append(rows, row{key: k, data: data})
	})
	if encErr != nil {
		return uuid.Nil, encErr
	}

	batch := uuid.New()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return uuid.Nil, fmt.Errorf("preparing import: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		k := r.key
		if _, err := stmt.ExecContext(ctx,
			k.Nominal, k.ProtocolModule, k.Protocol, k.Member, string(r.data), batch.String()); err != nil {
			return uuid.Nil, fmt.Errorf("storing witness %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing import: %w", err)
	}
	return batch, nil
}

// Get loads the witness for k and builds it in b.
func (s *Store) Get(ctx context.Context, b *typeref.Builder, k Key) (typeref.TypeRef, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT witness FROM witnesses WHERE nominal = ? AND protocol_module = ? AND protocol = ? AND member = ?`,
		k.Nominal, k.ProtocolModule, k.Protocol, k.Member).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewNotFoundError(k)
	}
	if err != nil {
		return nil, fmt.Errorf("loading witness %s: %w", k, err)
	}
	w, err := refdoc.DecodeYAML(b, []byte(data))
	if err != nil {
		return nil, fmt.Errorf("decoding witness %s: %w", k, err)
	}
	return w, nil
}

// List returns all stored witnesses ordered by key.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT nominal, protocol_module, protocol, member, witness, batch FROM witnesses
		 ORDER BY nominal, protocol_module, protocol, member`)
	if err != nil {
		return nil, fmt.Errorf("listing witnesses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var data string
		if err := rows.Scan(&e.Key.Nominal, &e.Key.ProtocolModule, &e.Key.Protocol, &e.Key.Member, &data, &e.Batch); err != nil {
			return nil, fmt.Errorf("listing witnesses: %w", err)
		}
		var n refdoc.Node
		if err := yaml.Unmarshal([]byte(data), &n); err != nil {
			return nil, fmt.Errorf("decoding witness %s: %w", e.Key, err)
		}
		e.Witness = &n
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing witnesses: %w", err)
	}
	return entries, nil
}

// Resolver adapts the store to typeref.WitnessResolver for one builder
// session. Loaded witnesses are cached in memory.
func (s *Store) Resolver(ctx context.Context, b *typeref.Builder) typeref.WitnessResolver {
	return &storeResolver{ctx: ctx, store: s, b: b, cache: NewTable()}
}

type storeResolver struct {
	ctx   context.Context
	store *Store
	b     *typeref.Builder
	cache *Table
}

func (r *storeResolver) ResolveWitness(mangledName string, dm *typeref.DependentMember) (typeref.TypeRef, error) {
	k := KeyFor(mangledName, dm)
	if w, ok := r.cache.Lookup(k); ok {
		return w, nil
	}
	w, err := r.store.Get(r.ctx, r.b, k)
	if err != nil {
		return nil, err
	}
	r.cache.Add(k, w)
	return w, nil
}
