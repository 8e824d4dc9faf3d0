// Package model defines the account records and import options shared by the
// loader, the importer and the command line.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString is a string field that also accepts JSON numbers and booleans.
// F-Secure exports are not consistent about the type of fields such as
// creditCvv, which may be written as 123 or "0123". Objects and arrays are
// rejected.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	case '{', '[':
		return fmt.Errorf("cannot use JSON %s as a string value", kindOf(data[0]))
	default:
		// Numbers and booleans are kept verbatim so leading digits survive.
		*s = FlexString(data)
	}
	return nil
}

// String returns the underlying string.
func (s FlexString) String() string {
	return string(s)
}

// IsEmpty reports whether the value is empty. Whitespace counts as a value.
func (s FlexString) IsEmpty() bool {
	return s == ""
}

func kindOf(b byte) string {
	if b == '{' {
		return "object"
	}
	return "array"
}

// OutcomeStatus describes how a single record ended up.
type OutcomeStatus int

const (
	// StatusImported means the insert command succeeded.
	StatusImported OutcomeStatus = iota
	// StatusFailed means the insert command reported an error.
	StatusFailed
	// StatusSkipped means the record was rejected before any command ran.
	StatusSkipped
	// StatusDryRun means the record would have been imported.
	StatusDryRun
)

// String returns the string representation of the OutcomeStatus.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusImported:
		return "imported"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusDryRun:
		return "dry-run"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}
