package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed, ignoring case.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want %s)", format, strings.Join(allowed, ", "))
}

// ValidateRange checks that lo <= v <= hi. A hi of zero means no upper bound.
func ValidateRange(name string, v, lo, hi int) error {
	if v < lo {
		return New(ErrCodeInvalidInput, "%s must be at least %d, got %d", name, lo, v)
	}
	if hi > 0 && v > hi {
		return New(ErrCodeInvalidInput, "%s must be at most %d, got %d", name, hi, v)
	}
	return nil
}
