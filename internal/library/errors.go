package library

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks operations addressing entities that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks operations refused because a piece directory or
	// file name is already taken on disk.
	ErrConflict = errors.New("conflict")
	// ErrForbidden marks operations the library refuses outright, such as
	// mutating a file's stored identity.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation marks malformed requests.
	ErrValidation = errors.New("validation error")
	// ErrInternal marks storage or filesystem failures.
	ErrInternal = errors.New("internal error")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "library failure"
	}
	return strings.Join(parts, ": ")
}
