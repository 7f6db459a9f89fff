package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/crmnav/pkg/routepath"
)

// =============================================================================
// Table Validation
// =============================================================================

// Validation sentinels; ValidationError unwraps to one of these.
var (
	ErrDuplicatePath = errors.New("duplicate route path")
	ErrDuplicateName = errors.New("duplicate route name")
	ErrEmptyName     = errors.New("empty route name")
	ErrInvalidPath   = errors.New("invalid route path")
	ErrMissingView   = errors.New("route has no view")
)

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicatePath indicates two records declare the same path.
	ErrorDuplicatePath ValidationErrorType = "DUPLICATE_PATH"

	// ErrorDuplicateName indicates two records declare the same name.
	ErrorDuplicateName ValidationErrorType = "DUPLICATE_NAME"

	// ErrorEmptyName indicates a record without a name.
	ErrorEmptyName ValidationErrorType = "EMPTY_NAME"

	// ErrorInvalidPath indicates a path that is not a canonical literal path.
	// Example: "contacts", "/notes/", "/contacts/:id"
	ErrorInvalidPath ValidationErrorType = "INVALID_PATH"

	// ErrorMissingView indicates a record whose view is nil.
	ErrorMissingView ValidationErrorType = "MISSING_VIEW"
)

var sentinels = map[ValidationErrorType]error{
	ErrorDuplicatePath: ErrDuplicatePath,
	ErrorDuplicateName: ErrDuplicateName,
	ErrorEmptyName:     ErrEmptyName,
	ErrorInvalidPath:   ErrInvalidPath,
	ErrorMissingView:   ErrMissingView,
}

// ValidationError represents a route table validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Path is the offending URL pattern
	Path string

	// Indexes are the table positions involved
	Indexes []int
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the sentinel for the error type.
func (e ValidationError) Unwrap() error {
	return sentinels[e.Type]
}

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes every validation error to errors.Is and errors.As.
func (e *MultiValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// Validator validates a route table.
type Validator struct {
	records   []Record
	errors    []ValidationError
	sensitive bool
}

// NewValidator creates a new route table validator. Paths that differ only
// in case count as duplicates unless CaseSensitive(true) is set.
func NewValidator(records []Record) *Validator {
	return &Validator{records: records}
}

// CaseSensitive sets whether path duplicates compare case-sensitively.
func (v *Validator) CaseSensitive(sensitive bool) *Validator {
	v.sensitive = sensitive
	return v
}

// Validate checks all records.
// Returns nil if the table is valid, or a MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateRecords()
	v.validateDuplicates()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validateRecords checks each record on its own.
func (v *Validator) validateRecords() {
	for i, rec := range v.records {
		if rec.Name == "" {
			v.add(ErrorEmptyName, fmt.Sprintf("route %d (%s) has no name", i, rec.Path), rec.Path, i)
		}
		if rec.View == nil {
			v.add(ErrorMissingView, fmt.Sprintf("route %q has no view", rec.Name), rec.Path, i)
		}
		if reason := invalidPathReason(rec.Path); reason != "" {
			v.add(ErrorInvalidPath, fmt.Sprintf("route %q: %s", rec.Name, reason), rec.Path, i)
		}
	}
}

// validateDuplicates checks that paths and names are pairwise distinct.
func (v *Validator) validateDuplicates() {
	byPath := make(map[string][]int)
	byName := make(map[string][]int)
	var pathOrder, nameOrder []string

	for i, rec := range v.records {
		key := rec.Path
		if !v.sensitive {
			key = strings.ToLower(key)
		}
		if _, seen := byPath[key]; !seen {
			pathOrder = append(pathOrder, key)
		}
		byPath[key] = append(byPath[key], i)

		if rec.Name == "" {
			continue
		}
		if _, seen := byName[rec.Name]; !seen {
			nameOrder = append(nameOrder, rec.Name)
		}
		byName[rec.Name] = append(byName[rec.Name], i)
	}

	for _, key := range pathOrder {
		if idx := byPath[key]; len(idx) > 1 {
			path := v.records[idx[0]].Path
			v.add(ErrorDuplicatePath, fmt.Sprintf("path %s is declared %d times", path, len(idx)), path, idx...)
		}
	}
	for _, name := range nameOrder {
		if idx := byName[name]; len(idx) > 1 {
			v.add(ErrorDuplicateName, fmt.Sprintf("name %q is declared %d times", name, len(idx)), v.records[idx[0]].Path, idx...)
		}
	}
}

func (v *Validator) add(typ ValidationErrorType, msg, path string, indexes ...int) {
	v.errors = append(v.errors, ValidationError{
		Type:    typ,
		Message: msg,
		Path:    path,
		Indexes: indexes,
	})
}

// invalidPathReason explains why path is not a canonical literal path.
func invalidPathReason(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "path must start with /"
	}
	canon, err := routepath.CanonicalizePath(path)
	if err != nil {
		return err.Error()
	}
	if canon.Path != path {
		return fmt.Sprintf("path is not canonical (want %s)", canon.Path)
	}
	for _, seg := range splitPath(path) {
		if strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			return "dynamic segments are not supported"
		}
	}
	return ""
}
