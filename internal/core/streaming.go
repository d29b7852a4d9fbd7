package core

// streaming.go reads import files into memory and fixes up their encoding.
//
// Import files come from spreadsheets and editors on every platform, so
// before decoding:
//
//   - a UTF-8 byte order mark is dropped (Excel writes one on CSV export)
//   - UTF-16 content announced by a BOM is transcoded to UTF-8
//   - invalid UTF-8 bytes become U+FFFD instead of failing the import
//
// The size limit applies to the raw bytes, before any transcoding.

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadImport reads all of r, failing with ErrFileTooLarge once more than
// maxSize bytes arrive. A non-positive maxSize disables the limit.
func ReadImport(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxSize)
	}
	return NormalizeEncoding(raw)
}

// NormalizeEncoding returns raw as BOM-less, valid UTF-8.
func NormalizeEncoding(raw []byte) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}
	return out, nil
}
