// Package integrity describes database constraint violations in driver-neutral terms.
package integrity

import (
	"errors"
	"fmt"
)

// Constraint identifies the kind of constraint that rejected a write.
type Constraint string

const (
	NotNull    Constraint = "not-null"
	ForeignKey Constraint = "foreign-key"
	Unique     Constraint = "unique"
)

// Error reports a constraint violation raised by the storage engine. It is
// terminal for the write that triggered it.
type Error struct {
	Table      string
	Column     string
	Constraint Constraint
	Cause      error
}

func (e *Error) Error() string {
	switch e.Constraint {
	case NotNull:
		return fmt.Sprintf("null value in column %q violates not-null constraint", e.Column)
	case Unique:
		return fmt.Sprintf("duplicate value in column %q violates unique constraint", e.Column)
	case ForeignKey:
		if e.Column == "" {
			return "insert or update violates foreign key constraint"
		}
		return fmt.Sprintf("insert or update on column %q violates foreign key constraint", e.Column)
	default:
		return fmt.Sprintf("integrity violation on %s.%s", e.Table, e.Column)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts an integrity error from err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsNotNull reports whether err is a NOT NULL violation, optionally restricted to column.
func IsNotNull(err error, column string) bool {
	violation, ok := As(err)
	if !ok || violation.Constraint != NotNull {
		return false
	}
	return column == "" || violation.Column == column
}
