package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/splitter/internal/archive"
	"github.com/JonMunkholm/splitter/internal/sheet"
)

// NamedBlob is one encoded part ready for download.
type NamedBlob struct {
	Name      string
	Data      []byte
	PartIndex int
	DataRows  int
}

// SplitResult is the outcome of one split operation. It is immutable once
// returned; the archive is built the first time it is requested and then
// reused.
type SplitResult struct {
	ID           string
	SourceName   string
	Format       sheet.Format
	PartCount    int
	DataRowCount int
	ArchiveName  string
	Files        []NamedBlob
	CreatedAt    time.Time

	archiveOnce sync.Once
	archive     []byte
	archiveErr  error
}

// File returns the blob with the given name.
func (r *SplitResult) File(name string) (NamedBlob, error) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, nil
		}
	}
	return NamedBlob{}, fmt.Errorf("%w: no file %q in split %s", ErrSplitNotFound, name, r.ID)
}

// Archive returns the zip payload containing every file under its name.
func (r *SplitResult) Archive() ([]byte, error) {
	r.archiveOnce.Do(func() {
		entries := make([]archive.Entry, len(r.Files))
		for i, f := range r.Files {
			entries[i] = archive.Entry{Name: f.Name, Data: f.Data}
		}
		payload, err := archive.Build(entries)
		if err != nil {
			r.archiveErr = fmt.Errorf("%w: build archive %s: %w", ErrEncodingFailure, r.ArchiveName, err)
			return
		}
		r.archive = payload
	})
	return r.archive, r.archiveErr
}

// TotalBytes returns the combined size of every part.
func (r *SplitResult) TotalBytes() int64 {
	var n int64
	for _, f := range r.Files {
		n += int64(len(f.Data))
	}
	return n
}
