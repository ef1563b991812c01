package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePins validates a pair of pin rows.
// It rejects rows of different length and negative net identifiers.
// Zero marks an empty pin position and is always accepted.
func ValidatePins(top, bottom []int) error {
	if len(top) != len(bottom) {
		return New(ErrCodeInvalidInput, "pin rows differ in length: top has %d, bottom has %d", len(top), len(bottom))
	}
	for i := range top {
		if top[i] < 0 {
			return New(ErrCodeInvalidInput, "top pin %d has negative net id %d", i, top[i])
		}
		if bottom[i] < 0 {
			return New(ErrCodeInvalidInput, "bottom pin %d has negative net id %d", i, bottom[i])
		}
	}
	return nil
}

// ValidatePositive rejects negative values for an optional configuration field.
// Zero is accepted and means "use the default".
func ValidatePositive(field string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", field, v)
	}
	return nil
}

// ValidatePath validates a user supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// recordIDRegex matches canonical lowercase UUID strings.
var recordIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRecordID validates a stored routing record identifier.
// Record ids are used as file names by the file store, so anything that is
// not a canonical UUID is rejected before it reaches the filesystem.
func ValidateRecordID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "record id cannot be empty")
	}
	if !recordIDRegex.MatchString(strings.ToLower(id)) {
		return New(ErrCodeInvalidInput, "invalid record id: %q", id)
	}
	return nil
}
