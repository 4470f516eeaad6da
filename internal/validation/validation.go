// Package validation holds the error returned for missing user input.
// A validation failure is raised before any store call.
package validation

import "strings"

type Error struct {
	Message string
	// Fields lists the missing inputs, in form order.
	Fields []string
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, fields ...string) *Error {
	return &Error{Message: message, Fields: fields}
}

// Required returns the names whose values are blank, keeping the order of names.
func Required(names []string, values map[string]string) []string {
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
