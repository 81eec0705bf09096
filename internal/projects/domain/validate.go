package domain

import (
	"fmt"
	"strings"
)

const (
	MinPromptLength = 10
	MinNameLength   = 3
)

// ValidationError describes a rejected input field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidatePrompt requires at least MinPromptLength characters after trimming.
func ValidatePrompt(prompt string) error {
	if n := len([]rune(strings.TrimSpace(prompt))); n < MinPromptLength {
		return invalid("prompt", "must be at least %d characters", MinPromptLength)
	}
	return nil
}

// ValidateName requires at least MinNameLength characters after trimming.
func ValidateName(name string) error {
	if n := len([]rune(strings.TrimSpace(name))); n < MinNameLength {
		return invalid("name", "must be at least %d characters", MinNameLength)
	}
	return nil
}

// ValidateFilename accepts non-empty, relative, forward-slash paths without ".." segments.
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return invalid("filename", "is required")
	}
	if strings.HasPrefix(filename, "/") || strings.Contains(filename, `\`) {
		return invalid("filename", "must be a relative forward-slash path")
	}
	for _, seg := range strings.Split(filename, "/") {
		if seg == ".." {
			return invalid("filename", "must not contain '..'")
		}
	}
	return nil
}

// ValidateInstructions requires a non-blank improvement request.
func ValidateInstructions(instructions string) error {
	if strings.TrimSpace(instructions) == "" {
		return invalid("instructions", "is required")
	}
	return nil
}
