// Package sources provides adapters for reading account exports.
package sources

import (
	"path/filepath"
	"strings"

	"github.com/nvinuesa/fsk2pass/internal/model"
)

// Source defines the interface for export readers.
// Each adapter reads accounts from a specific format and converts them to
// the internal model representation.
type Source interface {
	// Name returns the unique identifier for this source (e.g., "fsecure").
	Name() string

	// Description returns a human-readable description of the source.
	Description() string

	// SupportedExtensions returns file extensions this source handles (e.g., [".fsk"]).
	SupportedExtensions() []string

	// Open loads and validates the export at path.
	Open(path string) error

	// Read returns the accounts in file order.
	// May be called multiple times; should return the same results.
	Read() ([]model.Account, error)

	// Close releases any resources held by the source.
	// Should clear sensitive data from memory where possible.
	Close() error
}

// HasSupportedExtension reports whether path ends with one of the source's
// extensions, ignoring case.
func HasSupportedExtension(s Source, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range s.SupportedExtensions() {
		if strings.ToLower(supported) == ext {
			return true
		}
	}
	return false
}
