package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "book", ID: "Macabeos"},
			wantMsg:  "book not found: Macabeos",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "last read position"},
			wantMsg:  "last read position not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlying := fmt.Errorf("no rows")
		err := &NotFoundError{Resource: "favorite", ID: "Juan-3-16", Err: underlying}
		if got := err.Unwrap(); got != underlying {
			t.Errorf("Unwrap() = %v, want %v", got, underlying)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Error("expected NotFoundError with a cause to still match ErrNotFound")
		}
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidation("chapter", "must be between 0 and 50")
	if got, want := err.Error(), "validation failed for chapter: must be between 0 and 50"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected ValidationError to match ErrInvalidInput")
	}

	bare := &ValidationError{Message: "empty"}
	if got, want := bare.Error(), "validation failed: empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("reference", "Gn x", "unexpected token")
	if got, want := err.Error(), `failed to parse reference "Gn x": unexpected token`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected ParseError to match ErrInvalidInput")
	}

	noInput := NewParse("backup", "", "checksum mismatch")
	if got, want := noInput.Error(), "failed to parse backup: checksum mismatch"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIOError(t *testing.T) {
	base := fmt.Errorf("permission denied")
	err := NewIO("open", "/tmp/state.db", base)
	if got, want := err.Error(), "failed to open /tmp/state.db: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, base) {
		t.Error("expected IOError to unwrap to the underlying error")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(NewNotFound("book", "X"), "step from %s", "X")
	if got, want := err.Error(), "step from X: book not found: X"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if !Is(err, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}

	var nf *NotFoundError
	if !As(err, &nf) || nf.ID != "X" {
		t.Errorf("As() did not recover NotFoundError, got %v", nf)
	}
}
