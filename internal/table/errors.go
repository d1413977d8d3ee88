package table

import (
	"fmt"
	"strings"
)

// MissingColumnError reports a requested column that is absent from the table.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found (table has no columns)", e.Column)
	}
	return fmt.Sprintf("column %q not found; available: %s", e.Column, strings.Join(e.Available, ", "))
}

// EmptyInputError reports an operation invoked with nothing to work on.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	if e.Op == "" {
		return "empty input"
	}
	return fmt.Sprintf("%s: empty input", e.Op)
}

// MalformedDataError reports a column whose values do not match the kind the
// operation expects. Row is 0-based and -1 when the whole column is at fault.
type MalformedDataError struct {
	Column string
	Row    int
	Value  string
	Want   string
}

func (e *MalformedDataError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("column %q: expected %s values", e.Column, e.Want)
	}
	return fmt.Sprintf("column %q row %d: expected %s value, got %q", e.Column, e.Row+1, e.Want, e.Value)
}
