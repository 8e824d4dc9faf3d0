package security

import (
	"fmt"
	"strings"
)

// Limits applied to values that end up on the insert command line.
const (
	MaxDestinationLength = 1024
	MaxSegmentLength     = 255
)

// ErrInvalidDestination indicates that a pass path cannot be used safely.
type ErrInvalidDestination struct {
	Destination string
	Reason      string
}

func (e *ErrInvalidDestination) Error() string {
	return fmt.Sprintf("invalid destination %q: %s", e.Destination, e.Reason)
}

// ValidateStringLength validates that a string is within allowed length.
func ValidateStringLength(s string, maxLen int, fieldName string) error {
	if len(s) > maxLen {
		return fmt.Errorf("%s exceeds maximum length of %d bytes", fieldName, maxLen)
	}
	return nil
}

// ValidateDestination checks a "<group>/<service>" path before it is passed
// to pass. Segments must be non-empty, must not be "." or "..", and must not
// contain control characters. Absolute paths are rejected.
func ValidateDestination(dest string) error {
	invalid := func(reason string) error {
		return &ErrInvalidDestination{Destination: dest, Reason: reason}
	}

	if strings.TrimSpace(dest) == "" {
		return invalid("empty path")
	}
	if err := ValidateStringLength(dest, MaxDestinationLength, "destination"); err != nil {
		return invalid(err.Error())
	}
	if strings.HasPrefix(dest, "/") {
		return invalid("absolute paths not allowed")
	}
	if strings.HasPrefix(dest, "-") {
		return invalid("path cannot start with '-'")
	}

	for _, seg := range strings.Split(dest, "/") {
		switch {
		case strings.TrimSpace(seg) == "":
			return invalid("empty path segment")
		case seg == "." || seg == "..":
			return invalid("path contains relative segment")
		case len(seg) > MaxSegmentLength:
			return invalid(fmt.Sprintf("path segment exceeds %d bytes", MaxSegmentLength))
		}
		if strings.IndexFunc(seg, isControl) >= 0 {
			return invalid("path contains control characters")
		}
	}

	return nil
}

func isControl(r rune) bool {
	return r < 32 || r == 0x7f
}
