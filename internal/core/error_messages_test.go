package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"unsupported extension", fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, "a.txt"), "SPL001"},
		{"bad part count", fmt.Errorf("%w: part count must be a positive integer, got 0", ErrInvalidInput), "SPL002"},
		{"file too large wins over part count", fmt.Errorf("%w: file too large", ErrInvalidInput), "FILE001"},
		{"http body limit", errors.New("http: request body too large"), "FILE001"},
		{"invalid csv", fmt.Errorf("%w: a.csv: invalid csv: bare quote", ErrDecodeFailure), "FILE002"},
		{"invalid xlsx", fmt.Errorf("%w: a.xlsx: invalid xlsx: zip: not a valid zip file", ErrDecodeFailure), "FILE003"},
		{"empty file", fmt.Errorf("%w: empty file", ErrInvalidInput), "FILE005"},
		{"expired split", fmt.Errorf("%w: abc", ErrSplitNotFound), "SPL003"},
		{"busy", ErrTooManySplits, "SPL004"},
		{"archive failure", fmt.Errorf("%w: build archive a_split.zip: boom", ErrEncodingFailure), "ARC001"},
		{"part encoding failure", fmt.Errorf("%w: a_Part01.csv: short write", ErrEncodingFailure), "ARC002"},
		{"case insensitive", errors.New("RATE LIMIT exceeded"), "RATE001"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManySplits)
	want := "System is busy splitting other files (Code: SPL004). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(ErrTooManySplits) {
		t.Error("ErrTooManySplits should be user facing")
	}
	if IsUserFacing(errors.New("segfault in the flux capacitor")) {
		t.Error("unknown errors should not be user facing")
	}
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should return nil")
	}

	tech := fmt.Errorf("%w: empty file", ErrInvalidInput)
	ue := NewUserError(tech)
	if ue.User.Code != "FILE005" {
		t.Errorf("User.Code = %q, want FILE005", ue.User.Code)
	}
	if ue.Error() != "The uploaded file is empty" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, ErrInvalidInput) {
		t.Error("UserError should unwrap to the technical error")
	}
}
