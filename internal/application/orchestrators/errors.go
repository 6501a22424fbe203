package orchestrators

import (
	"errors"
	"strings"
)

// ValidationError carries one or more messages meant for the person filling the form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func invalid(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

// ValidationMessages returns the user-facing messages of err, or nil when
// err is not a validation failure.
func ValidationMessages(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return nil
}
