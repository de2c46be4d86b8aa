package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/revset/checkout/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "blob not found",
			wantStr: "[NOT_FOUND] blob not found",
		},
		{
			name:    "plan_invalid_error",
			code:    errors.ErrPlanInvalid,
			message: "duplicate path",
			wantStr: "[PLAN_INVALID] duplicate path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Error() != tt.wantStr {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantStr)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := errors.Wrap(inner, errors.ErrFileWrite, "failed to write a.txt")

	if !stderrors.Is(err, inner) {
		t.Error("wrapped error should match with errors.Is")
	}
	if stderrors.Unwrap(err) != inner {
		t.Error("Unwrap should return the inner error")
	}

	want := "[FILE_WRITE] failed to write a.txt: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapNil(t *testing.T) {
	if errors.Wrap(nil, errors.ErrFileWrite, "ignored") != nil {
		t.Error("wrapping nil should return nil")
	}
	if errors.Wrapf(nil, errors.ErrFileWrite, "ignored %d", 1) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrFetchOrder, "reordered at position %d", 3)

	if !errors.IsErrorCode(err, errors.ErrFetchOrder) {
		t.Error("IsErrorCode should match the error's own code")
	}
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		t.Error("IsErrorCode should not match a different code")
	}
	if errors.IsErrorCode(fmt.Errorf("plain"), errors.ErrFetchOrder) {
		t.Error("IsErrorCode should not match plain errors")
	}
}

func TestIsErrorCodeThroughWrapping(t *testing.T) {
	inner := errors.New(errors.ErrNotFound, "blob missing")
	outer := fmt.Errorf("apply failed: %w", inner)

	if !errors.IsErrorCode(outer, errors.ErrNotFound) {
		t.Error("IsErrorCode should find a CheckoutError through fmt wrapping")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrFetch, "x")); got != errors.ErrFetch {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrFetch)
	}
	if got := errors.GetErrorCode(fmt.Errorf("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrFileWrite, "write failed").
		WithDetail("path", "a.txt").
		WithDetail("bytes", 42)

	if err.Details["path"] != "a.txt" {
		t.Errorf("Details[path] = %v, want a.txt", err.Details["path"])
	}
	if err.Details["bytes"] != 42 {
		t.Errorf("Details[bytes] = %v, want 42", err.Details["bytes"])
	}
}
