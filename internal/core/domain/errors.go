// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by both repository backends. Handlers select
// response status codes with errors.Is against these.
var (
	// ErrItemNotFound is returned when no item exists for a given id.
	ErrItemNotFound = errors.New("item not found")

	// ErrPhotoNotFound is returned when an item has no photo, or when the
	// referenced file is missing from the photo store.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrNoChanges is returned by an update that carries no effective
	// fields. It is a status signal, not a failure: the endpoint responds
	// 200 with the unchanged item.
	ErrNoChanges = errors.New("no changes requested")
)

// ValidationError reports a missing or invalid request field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
