package integrity

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotNullMessageNamesColumn(t *testing.T) {
	t.Parallel()

	err := &Error{Table: "large_banner_plugins", Column: "title", Constraint: NotNull}

	expected := `null value in column "title" violates not-null constraint`
	if err.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, err.Error())
	}
}

func TestAsFindsWrappedViolation(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("creating large banner: %w", &Error{Column: "logo_id", Constraint: NotNull})

	violation, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected integrity error in chain of %v", wrapped)
	}
	if violation.Column != "logo_id" {
		t.Fatalf("expected logo_id column, got %q", violation.Column)
	}

	if !IsNotNull(wrapped, "logo_id") {
		t.Fatalf("expected IsNotNull to match logo_id")
	}
	if IsNotNull(wrapped, "title") {
		t.Fatalf("expected IsNotNull not to match title")
	}
	if IsNotNull(errors.New("plain failure"), "") {
		t.Fatalf("expected plain errors not to match")
	}
}
