// Package input opens scripture source files for loading. It handles .xz and
// .gz compression and picks the USX or USFM loader from the file name, or
// from the content when the extension is not recognized.
package input

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
	"github.com/sillsdev/FieldWorks-sub105/core/model"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
	"github.com/sillsdev/FieldWorks-sub105/core/usfm"
	"github.com/sillsdev/FieldWorks-sub105/core/usx"
)

// Format is a supported source format.
type Format string

const (
	FormatUnknown Format = ""
	FormatUSX     Format = "usx"
	FormatUSFM    Format = "usfm"
)

// File is an open, decompressed source file.
type File struct {
	io.Reader
	Path   string
	Format Format

	file         *os.File
	decompressor io.Closer
}

// Open opens path, decompressing .xz and .gz files, and detects its format.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, segerrors.NewIO("open", path, err)
	}

	var reader io.Reader = f
	var decompressor io.Closer
	name := path

	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, segerrors.NewIO("xz reader", path, err)
		}
		reader = xzr
		name = strings.TrimSuffix(path, ".xz")
	case strings.HasSuffix(path, ".gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, segerrors.NewIO("gzip reader", path, err)
		}
		reader = gzr
		decompressor = gzr
		name = strings.TrimSuffix(path, ".gz")
	}

	br := bufio.NewReader(reader)
	format := FormatFromName(name)
	if format == FormatUnknown {
		format = sniff(br)
	}

	return &File{
		Reader:       br,
		Path:         path,
		Format:       format,
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the file and any decompressor.
func (f *File) Close() error {
	var errs []error
	if f.decompressor != nil {
		if err := f.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// FormatFromName returns the format implied by a file extension.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".usx", ".xml":
		return FormatUSX
	case ".usfm", ".sfm":
		return FormatUSFM
	}
	return FormatUnknown
}

// sniff looks at the first non-space byte: '<' is USX, '\' is USFM.
func sniff(br *bufio.Reader) Format {
	head, _ := br.Peek(512)
	head = bytes.TrimLeft(head, " \t\r\n\ufeff")
	switch {
	case len(head) == 0:
		return FormatUnknown
	case head[0] == '<':
		return FormatUSX
	case head[0] == '\\':
		return FormatUSFM
	}
	return FormatUnknown
}

// LoadBook opens and loads one book. A nil style map uses styled.DefaultStyles.
func LoadBook(path string, styles *styled.StyleMap) (*model.Book, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var book *model.Book
	switch f.Format {
	case FormatUSX:
		book, err = usx.Load(f, styles)
	case FormatUSFM:
		book, err = usfm.Load(f, styles)
	default:
		return nil, segerrors.NewUnsupported("input format", fmt.Sprintf("cannot tell USX from USFM for %s", path))
	}
	if err != nil {
		return nil, segerrors.Wrapf(err, "loading %s", path)
	}
	return book, nil
}
