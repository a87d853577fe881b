package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// entryModTime is stamped on every member so identical inputs produce
// byte-identical archives.
var entryModTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var errFinalized = errors.New("archive already finalized")

// ZipArchiver writes a deflate-compressed zip archive into memory.
type ZipArchiver struct {
	buf   bytes.Buffer
	zw    *zip.Writer
	names map[string]struct{}
	done  bool
}

// NewZipArchiver returns an empty in-memory zip archive.
func NewZipArchiver() *ZipArchiver {
	z := &ZipArchiver{names: make(map[string]struct{})}
	z.zw = zip.NewWriter(&z.buf)
	return z
}

func (z *ZipArchiver) Add(name string, data []byte) error {
	if z.done {
		return errFinalized
	}
	if name == "" {
		return errors.New("empty archive entry name")
	}
	if _, dup := z.names[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}

	w, err := z.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryModTime,
	})
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry: %w", err)
	}

	z.names[name] = struct{}{}
	return nil
}

func (z *ZipArchiver) Bytes() ([]byte, error) {
	if !z.done {
		if err := z.zw.Close(); err != nil {
			return nil, fmt.Errorf("finalize zip: %w", err)
		}
		z.done = true
	}
	return z.buf.Bytes(), nil
}

func (z *ZipArchiver) Extension() string { return ".zip" }

// Read lists every member of a zip payload in stored order, with contents.
func Read(payload []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: data})
	}
	return entries, nil
}
