// Package archive bundles named byte payloads into a single downloadable
// container and reads such containers back.
package archive

import (
	"errors"
	"fmt"
)

// ErrDuplicateEntry is returned when two entries share a name.
var ErrDuplicateEntry = errors.New("duplicate archive entry")

// Entry is one named member of an archive.
type Entry struct {
	Name string
	Data []byte
}

// Archiver collects entries into an archive format.
type Archiver interface {
	// Add stores data under name as an independent member.
	Add(name string, data []byte) error

	// Bytes finalizes the archive and returns the complete payload.
	// No entries may be added afterwards.
	Bytes() ([]byte, error)

	// Extension returns the file extension for this archive type (e.g. ".zip").
	Extension() string
}

// Build writes entries in order into a new zip archive and returns the payload.
func Build(entries []Entry) ([]byte, error) {
	return BuildWith(NewZipArchiver(), entries)
}

// BuildWith writes entries in order into a and finalizes it.
func BuildWith(a Archiver, entries []Entry) ([]byte, error) {
	for _, e := range entries {
		if err := a.Add(e.Name, e.Data); err != nil {
			return nil, fmt.Errorf("add %q: %w", e.Name, err)
		}
	}
	return a.Bytes()
}
