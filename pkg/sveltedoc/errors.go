package sveltedoc

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of an extraction failure.
type ErrorKind string

const (
	// KindParseError marks malformed script or markup syntax. Unrecoverable;
	// aborts the whole run.
	KindParseError ErrorKind = "parse"

	// KindDuplicateName marks a name collision inside a category list that
	// requires uniqueness. Unrecoverable.
	KindDuplicateName ErrorKind = "duplicate-name"
)

// Error is the single structured failure an extraction run can surface.
// The caller receives either a complete ComponentDoc or one of these,
// never a half-populated object.
type Error struct {
	Kind    ErrorKind
	Message string

	// Loc is the offending source span.
	Loc *SourceLocation

	// Related is the second span for duplicate-name collisions.
	Related *SourceLocation
}

func (e *Error) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("%s: %s (at %d..%d)", e.Kind, e.Message, e.Loc.Start, e.Loc.End)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AsError unwraps err into the structured extraction error, if it is one.
func AsError(err error) (*Error, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

func newParseError(msg string, start, end uint) *Error {
	return &Error{
		Kind:    KindParseError,
		Message: msg,
		Loc:     &SourceLocation{Start: start, End: end},
	}
}

func newDuplicateNameError(category, name string, first, second *SourceLocation) *Error {
	return &Error{
		Kind:    KindDuplicateName,
		Message: fmt.Sprintf("duplicate %s name %q", category, name),
		Loc:     second,
		Related: first,
	}
}
