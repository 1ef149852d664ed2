package models

import "fmt"

// ValidationError reports a transition precondition failure. Field names the
// missing or invalid field ("platformIds" or "scheduledAt").
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s is missing or invalid", e.Field)
}

// TerminalStateError rejects a mutation attempted on a published item.
type TerminalStateError struct {
	ID string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("content item %s is published and can no longer change", e.ID)
}

// NotFoundError reports an operation against an unknown item id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content item %s does not exist", e.ID)
}
