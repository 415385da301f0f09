package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// MaxWindowDimension bounds window width and height accepted from users.
const MaxWindowDimension = 1 << 16

// nodeIDRegex matches node ids usable in scene documents, cache keys and URLs.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateNodeID validates a node id taken from a scene document or request.
//
// Validation rules:
//   - Id cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - Must start with a letter or digit and contain only letters, digits,
//     '.', '_', ':' and '-'
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "node id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidScene, "node id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "node id contains invalid control characters")
		}
	}
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidScene, "invalid node id: %q", id)
	}
	return nil
}

// ValidateWindow validates a window size. Both dimensions must be finite,
// positive and at most MaxWindowDimension.
func ValidateWindow(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidWindow, "window %s must be a finite number", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeInvalidWindow, "window %s must be positive, got %g", d.name, d.v)
		}
		if d.v > MaxWindowDimension {
			return New(ErrCodeInvalidWindow, "window %s too large (max %d)", d.name, MaxWindowDimension)
		}
	}
	return nil
}

// ValidateFormat validates that format is one of allowed (case-sensitive).
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateSessionID validates a session id received from a client.
// Session ids are UUIDs; anything else is rejected before a store lookup.
func ValidateSessionID(id string) error {
	if len(id) != 36 {
		return New(ErrCodeInvalidInput, "invalid session id")
	}
	for i, r := range id {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return New(ErrCodeInvalidInput, "invalid session id")
			}
		default:
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return New(ErrCodeInvalidInput, "invalid session id")
			}
		}
	}
	return nil
}
