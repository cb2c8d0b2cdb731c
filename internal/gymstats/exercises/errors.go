package exercises

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrDuplicateID      = errors.New("duplicate exercise id")
	ErrIdentityChanged  = errors.New("exercise owner or key changed")
)

// ValidationError identifies the field, and where relevant the (template, option)
// pair, that made a request invalid. Nothing is persisted when it is returned.
type ValidationError struct {
	Field      string `json:"field"`
	TemplateID string `json:"templateId,omitempty"`
	OptionKey  string `json:"optionKey,omitempty"`
	Reason     string `json:"reason"`
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed [")
	sb.WriteString(e.Field)
	if e.TemplateID != "" {
		sb.WriteString(" ")
		sb.WriteString(e.TemplateID)
	}
	if e.OptionKey != "" {
		sb.WriteString("/")
		sb.WriteString(e.OptionKey)
	}
	sb.WriteString("]: ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// ConflictError is returned when the owner already has an exercise with the same key.
type ConflictError struct {
	Owner string
	Key   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("exercise key [%s] already exists for owner [%s]", e.Key, e.Owner)
}

// IntegrityError wraps a persistence fault during an aggregate write.
// The write has been rolled back when it is returned.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("exercise %s failed: %s", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func newValidationError(field, templateID, optionKey, reason string) *ValidationError {
	return &ValidationError{
		Field:      field,
		TemplateID: templateID,
		OptionKey:  optionKey,
		Reason:     reason,
	}
}
