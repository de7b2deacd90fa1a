package typeref

import "fmt"

// ContractViolation signals malformed metadata or a caller bug. It is raised
// with panic and is never turned into a partial result.
type ContractViolation struct {
	Op  string
	Msg string
	Err error
}

func (e *ContractViolation) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("typeref: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("typeref: %s: %s", e.Op, e.Msg)
}

func (e *ContractViolation) Unwrap() error {
	return e.Err
}

// violate panics with a ContractViolation.
func violate(op string, format string, args ...any) {
	panic(&ContractViolation{Op: op, Msg: fmt.Sprintf(format, args...)})
}

func violateErr(op string, err error, format string, args ...any) {
	panic(&ContractViolation{Op: op, Msg: fmt.Sprintf(format, args...), Err: err})
}
