package router

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatorAcceptsTable(t *testing.T) {
	if err := NewValidator(testRecords()).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidatorErrors(t *testing.T) {
	view := namedView("v")

	tests := []struct {
		name     string
		records  []Record
		wantType ValidationErrorType
		wantErr  error
	}{
		{
			name: "duplicate path",
			records: []Record{
				{Path: "/notes", Name: "Notes", View: view},
				{Path: "/notes", Name: "Notes2", View: view},
			},
			wantType: ErrorDuplicatePath,
			wantErr:  ErrDuplicatePath,
		},
		{
			name: "duplicate name",
			records: []Record{
				{Path: "/notes", Name: "Notes", View: view},
				{Path: "/memos", Name: "Notes", View: view},
			},
			wantType: ErrorDuplicateName,
			wantErr:  ErrDuplicateName,
		},
		{
			name:     "empty name",
			records:  []Record{{Path: "/notes", View: view}},
			wantType: ErrorEmptyName,
			wantErr:  ErrEmptyName,
		},
		{
			name:     "missing view",
			records:  []Record{{Path: "/notes", Name: "Notes"}},
			wantType: ErrorMissingView,
			wantErr:  ErrMissingView,
		},
		{
			name:     "relative path",
			records:  []Record{{Path: "notes", Name: "Notes", View: view}},
			wantType: ErrorInvalidPath,
			wantErr:  ErrInvalidPath,
		},
		{
			name:     "trailing slash",
			records:  []Record{{Path: "/notes/", Name: "Notes", View: view}},
			wantType: ErrorInvalidPath,
			wantErr:  ErrInvalidPath,
		},
		{
			name:     "dynamic segment",
			records:  []Record{{Path: "/contacts/:id", Name: "Contact", View: view}},
			wantType: ErrorInvalidPath,
			wantErr:  ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidator(tt.records).Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var multi *MultiValidationError
			if !errors.As(err, &multi) {
				t.Fatalf("err type = %T", err)
			}
			if multi.Errors[0].Type != tt.wantType {
				t.Errorf("Type = %s, want %s", multi.Errors[0].Type, tt.wantType)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v) = false", tt.wantErr)
			}
		})
	}
}

func TestValidatorDuplicateIndexes(t *testing.T) {
	view := namedView("v")
	err := NewValidator([]Record{
		{Path: "/", Name: "Home", View: view},
		{Path: "/a", Name: "A", View: view},
		{Path: "/a", Name: "B", View: view},
	}).Validate()

	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("err = %v", err)
	}
	got := multi.Errors[0].Indexes
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Indexes = %v, want [1 2]", got)
	}
}

func TestMultiValidationErrorMessage(t *testing.T) {
	err := &MultiValidationError{Errors: []ValidationError{
		{Type: ErrorDuplicatePath, Message: "path /a is declared 2 times"},
		{Type: ErrorDuplicateName, Message: `name "A" is declared 2 times`},
	}}

	msg := err.Error()
	if !strings.HasPrefix(msg, "2 route validation errors:") {
		t.Errorf("Error() = %q", msg)
	}
	if !strings.Contains(msg, "DUPLICATE_NAME") {
		t.Errorf("Error() missing second error: %q", msg)
	}

	single := &MultiValidationError{Errors: err.Errors[:1]}
	if single.Error() != "DUPLICATE_PATH: path /a is declared 2 times" {
		t.Errorf("Error() = %q", single.Error())
	}
	if (&MultiValidationError{}).Error() != "no validation errors" {
		t.Error("empty MultiValidationError message")
	}
}
