package core

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

// ArchiveSuffix is appended to the source base name to name the archive.
const ArchiveSuffix = "_split"

// SourceName describes an uploaded file name once its format is known.
type SourceName struct {
	Base   string       // file name without directory or extension
	Ext    string       // extension as uploaded, e.g. ".CSV"; empty means the format's own
	Format sheet.Format // selects the codec
}

// ParseSourceName validates fileName and splits it into base name and
// format. Any directory component is dropped first; browsers on some
// platforms send full client paths.
func ParseSourceName(fileName string) (SourceName, error) {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	format, base, ok := sheet.DetectFormat(name)
	if !ok {
		return SourceName{}, fmt.Errorf("%w: unsupported file type %q, expected .xlsx or .csv", ErrInvalidInput, fileName)
	}
	return SourceName{Base: base, Ext: name[len(base):], Format: format}, nil
}

// PartName returns the file name for part index (1-based) of partCount.
// The index is zero-padded to max(2, digits(partCount)) so names sort in
// part order. Parts keep the source's extension spelling.
func (s SourceName) PartName(index, partCount int) string {
	width := max(2, len(strconv.Itoa(partCount)))
	return fmt.Sprintf("%s_Part%0*d%s", s.Base, width, index, s.extension())
}

func (s SourceName) extension() string {
	if s.Ext != "" {
		return s.Ext
	}
	return s.Format.Extension()
}

// ArchiveName returns the name of the bundled archive.
func (s SourceName) ArchiveName() string {
	return s.Base + ArchiveSuffix + ".zip"
}
