package gefs

import (
	"errors"
	"fmt"
)

var (
	// ErrMetadataExtraction is the root of every error that aborts an item build.
	ErrMetadataExtraction = errors.New("metadata extraction failed")

	// ErrUnreadableSource is returned when the source file is missing or its
	// header cannot be decoded.
	ErrUnreadableSource = fmt.Errorf("%w: unreadable source", ErrMetadataExtraction)

	// ErrMissingField is matched by every *MissingFieldError.
	ErrMissingField = fmt.Errorf("%w: missing header field", ErrMetadataExtraction)

	// ErrSidecarNotFound is recorded as a warning when no .idx inventory
	// exists next to the source. It never fails a build.
	ErrSidecarNotFound = errors.New("sidecar index not found")
)

// MissingFieldError reports a header field an item cannot be built without.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

// Is lets errors.Is match ErrMissingField and its parents.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField || target == ErrMetadataExtraction
}
