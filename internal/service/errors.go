package service

import (
	"fmt"
	"time"

	"mizan/internal/domain"
)

const (
	EntityUser   = "user"
	EntityAction = "action"
)

// NotFoundError reports a missing user or action referenced by a request.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError reports malformed request input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDate validates a YYYY-MM-DD date and returns it in canonical form.
func ParseDate(field, value string) (string, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return "", &ValidationError{Field: field, Message: "expected a date in YYYY-MM-DD format"}
	}
	return t.Format(domain.DateLayout), nil
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format(domain.DateLayout)
}
