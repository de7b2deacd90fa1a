package config

// ConfigFileNames are the recognized project config files, in lookup order.
var ConfigFileNames = []string{"typeref.yaml", "typeref.yml", "typeref.toml"}

// DocumentExtensions are the recognized session document extensions.
var DocumentExtensions = []string{".yaml", ".yml", ".toml"}

// Output formats
const (
	FormatCompact = "compact"
	FormatTree    = "tree"
	FormatYAML    = "yaml"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables
const (
	EnvWitnessDB = "TYPEREF_WITNESS_DB"
)
