package core

import (
	"github.com/google/uuid"

	"github.com/JonMunkholm/roster/internal/codec"
)

// Export is an encoded snapshot of the store, ready to be served as a file.
type Export struct {
	Filename    string       // e.g. "estudiantes.csv"
	ContentType string       // MIME type for the download
	Format      codec.Format // format used to encode Data
	Data        []byte
	Count       int // records encoded
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	ID       uuid.UUID    `json:"id"`
	FileName string       `json:"fileName"`
	Format   codec.Format `json:"format"`
	Imported int          `json:"imported"` // records appended to the store
	Invalid  int          `json:"invalid"`  // appended records that fail field validation
	Total    int          `json:"total"`    // store size after the import
}
