package domain

import (
	"errors"
	"fmt"
	"testing"
)

// backendErr mimics an error from a package that exposes codes without importing domain.
type backendErr struct {
	code string
	msg  string
}

func (e *backendErr) Error() string        { return "backend: " + e.msg }
func (e *backendErr) ErrorCode() string    { return e.code }
func (e *backendErr) ErrorMessage() string { return e.msg }

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid input"},
			expected: "invalid input",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "cart.add", Message: "invalid input"},
			expected: "cart.add: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "bakeryapi.decode",
				Message: "failed to decode",
				Err:     errors.New("unexpected EOF"),
			},
			expected: "bakeryapi.decode: failed to decode: unexpected EOF",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to decode",
				Err:     errors.New("unexpected EOF"),
			},
			expected: "failed to decode: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{Code: EINTERNAL, Message: "wrapped", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: EINVALID, Message: "test"}, EINVALID},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", NotFound("session.order_status", "order", "abc")), ENOTFOUND},
		{"validation error", NewValidationError("checkout", "email", "required"), EINVALID},
		{"coded backend error", &backendErr{code: EUNAVAILABLE, msg: "down"}, EUNAVAILABLE},
		{"wrapped coded error", fmt.Errorf("load: %w", &backendErr{code: ENOTFOUND, msg: "gone"}), ENOTFOUND},
		{"non-domain error", errors.New("some error"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error with message", ErrEmptyCart, "Cart is empty"},
		{"internal error hides message", &Error{Code: EINTERNAL, Message: "backend URL leaked"}, "An internal error occurred. Please try again later."},
		{"coded backend error surfaces its message", &backendErr{code: EUNAVAILABLE, msg: "HTTP error! status: 503"}, "HTTP error! status: 503"},
		{"coded internal error is hidden", &backendErr{code: EINTERNAL, msg: "bad json"}, "An internal error occurred. Please try again later."},
		{"non-domain error returns generic message", errors.New("some internal detail"), "An internal error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	if got := ErrorOp(Invalid("cart.add", "bad")); got != "cart.add" {
		t.Errorf("ErrorOp() = %q, want %q", got, "cart.add")
	}
	if got := ErrorOp(NewValidationError("session.checkout", "name", "required")); got != "session.checkout" {
		t.Errorf("ErrorOp() = %q, want %q", got, "session.checkout")
	}
	if got := ErrorOp(errors.New("test")); got != "" {
		t.Errorf("ErrorOp() = %q, want empty", got)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "cart.add", "quantity must be positive, got %d", -1)

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}
	if domainErr.Code != EINVALID {
		t.Errorf("Code = %q, want %q", domainErr.Code, EINVALID)
	}
	if domainErr.Message != "quantity must be positive, got -1" {
		t.Errorf("Message = %q", domainErr.Message)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("dial tcp: refused")
		err := WrapError(underlying, EUNAVAILABLE, "session.load", "could not reach the bakery")

		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
		if ErrorCode(err) != EUNAVAILABLE {
			t.Errorf("Code = %q, want %q", ErrorCode(err), EUNAVAILABLE)
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"coded invalid", ErrEmptyCart, true},
		{"field validation", NewValidationError("checkout", "email", "required"), true},
		{"conflict", ErrSubmissionInProgress, false},
		{"plain error", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalid(tt.err); got != tt.expected {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("session.place_order", "email", "must be a valid email")

		expected := "session.place_order: email: must be a valid email"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("session.place_order", "name", "is required")
		err = AddFieldError(err, "phone", "is required")

		fields := GetValidationFields(err)
		if len(fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(fields))
		}
		if err.Error() != "session.place_order: validation failed for 2 fields" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("add field to nil", func(t *testing.T) {
		err := AddFieldError(nil, "name", "is required")
		if !IsValidationError(err) {
			t.Fatal("AddFieldError(nil) should return *ValidationError")
		}
	})

	t.Run("non-validation error has no fields", func(t *testing.T) {
		if fields := GetValidationFields(errors.New("test")); fields != nil {
			t.Error("GetValidationFields should return nil for non-validation error")
		}
	})
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("cart.update", "cart line", "7"), ENOTFOUND},
		{"Invalid", Invalid("cart.add", "quantity must be positive"), EINVALID},
		{"Conflict", Conflict("session.place_order", "already submitting"), ECONFLICT},
		{"Internal", Internal(errors.New("boom"), "session.load", "load failed"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}
