// Package codec encodes and decodes student record sequences in the four
// flat file formats the roster exchanges: tab-delimited text, CSV, XML and
// JSON.
//
// Formats form a closed set. A codec is chosen with [For] or, on import,
// from the file name's extension with [ForFilename]; content is never
// sniffed.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/roster/internal/student"
)

// ErrUnsupportedFormat is returned when a format name or file extension has
// no codec.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// BaseFilename is the file name stem used for every export.
const BaseFilename = "estudiantes"

// Codec encodes a record sequence to a document and decodes it back.
type Codec interface {
	// Format identifies the codec.
	Format() Format

	// Encode renders records in order. Encoding is deterministic: the same
	// input always yields the same bytes.
	Encode(records []student.Record) ([]byte, error)

	// Decode parses a whole document. It is all-or-nothing: on error no
	// records are returned.
	Decode(data []byte) ([]student.Record, error)
}

// Format identifies one of the supported file formats.
type Format int

const (
	FormatText Format = iota
	FormatCSV
	FormatXML
	FormatJSON
)

// formatInfo holds the static metadata of a format.
type formatInfo struct {
	Name        string // short name used in URLs and CLI flags
	Ext         string // file extension without the dot
	ContentType string
	Label       string // button label in the UI
}

var formats = [...]formatInfo{
	FormatText: {Name: "txt", Ext: "txt", ContentType: "text/plain; charset=utf-8", Label: "Texto (.txt)"},
	FormatCSV:  {Name: "csv", Ext: "csv", ContentType: "text/csv; charset=utf-8", Label: "Excel (.csv)"},
	FormatXML:  {Name: "xml", Ext: "xml", ContentType: "application/xml; charset=utf-8", Label: "XML"},
	FormatJSON: {Name: "json", Ext: "json", ContentType: "application/json; charset=utf-8", Label: "JSON"},
}

var codecs = [...]Codec{
	FormatText: textCodec{},
	FormatCSV:  csvCodec{},
	FormatXML:  xmlCodec{},
	FormatJSON: jsonCodec{},
}

// Formats returns every supported format in display order.
func Formats() []Format {
	return []Format{FormatText, FormatCSV, FormatXML, FormatJSON}
}

func (f Format) valid() bool {
	return f >= 0 && int(f) < len(formats)
}

// Name returns the short format name ("txt", "csv", "xml", "json").
func (f Format) Name() string {
	if !f.valid() {
		return ""
	}
	return formats[f].Name
}

// Ext returns the file extension without the leading dot.
func (f Format) Ext() string {
	if !f.valid() {
		return ""
	}
	return formats[f].Ext
}

// ContentType returns the MIME type served with an export.
func (f Format) ContentType() string {
	if !f.valid() {
		return ""
	}
	return formats[f].ContentType
}

// Label returns the human-readable label.
func (f Format) Label() string {
	if !f.valid() {
		return ""
	}
	return formats[f].Label
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formats[f].Name
}

// MarshalText renders the short name, so formats read naturally in JSON.
func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	return []byte(formats[f].Name), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Filename returns the export file name for f, e.g. "estudiantes.csv".
func Filename(f Format) string {
	return BaseFilename + "." + f.Ext()
}

// ParseFormat maps a short format name to its Format. Matching ignores case
// and a leading dot, so "CSV" and ".csv" both work.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	for _, f := range Formats() {
		if formats[f].Name == name || formats[f].Ext == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// For returns the codec for f.
func For(f Format) (Codec, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	return codecs[f], nil
}

// Must is For for formats known to be valid. It panics otherwise.
func Must(f Format) Codec {
	c, err := For(f)
	if err != nil {
		panic(err)
	}
	return c
}

// ForExtension returns the codec registered for a file extension, with or
// without the leading dot.
func ForExtension(ext string) (Codec, error) {
	f, err := ParseFormat(ext)
	if err != nil {
		return nil, err
	}
	return codecs[f], nil
}

// ForFilename returns the codec matching the extension of name.
func ForFilename(name string) (Codec, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ForExtension(ext)
}
