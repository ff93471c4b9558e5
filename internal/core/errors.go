package core

import "fmt"

// MissingColumnError reports a required column absent from the table schema.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q is missing from the statement", e.Column)
}

// ParseError reports a textual value that does not match its expected layout.
type ParseError struct {
	Value  string
	Layout string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("value %q does not match layout %q", e.Value, e.Layout)
}

// ExternalServiceError reports a failed or malformed response from the
// currency or stock provider. Quote failures abort the whole report; there is
// no retry and no fallback value.
type ExternalServiceError struct {
	Service string
	Status  int
	Reason  string
}

func (e *ExternalServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Reason)
}
