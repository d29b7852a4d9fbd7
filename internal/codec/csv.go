package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/student"
)

// csvCodec writes a header line of field keys followed by one comma-joined
// line per record. Values are never quoted, so a value containing a comma
// cannot round-trip. On decode the file's header order decides which column
// feeds which field.
type csvCodec struct{}

func (csvCodec) Format() Format { return FormatCSV }

func (csvCodec) Encode(records []student.Record) ([]byte, error) {
	var b strings.Builder
	b.WriteString(strings.Join(student.Keys(), ","))
	for _, rec := range records {
		b.WriteByte('\n')
		b.WriteString(strings.Join(rec.Values(), ","))
	}
	return []byte(b.String()), nil
}

func (csvCodec) Decode(data []byte) ([]student.Record, error) {
	lines := splitLines(data)
	if len(lines) == 0 {
		return nil, decodeError(FormatCSV, 0, errors.New("missing header line"))
	}

	columns, err := parseHeader(lines[0])
	if err != nil {
		return nil, decodeError(FormatCSV, 1, err)
	}

	records := make([]student.Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		values := strings.Split(line, ",")
		if len(values) != len(columns) {
			return nil, decodeError(FormatCSV, i+2,
				fmt.Errorf("expected %d values, got %d", len(columns), len(values)))
		}
		var rec student.Record
		for pos, f := range columns {
			rec.Set(f, values[pos])
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseHeader maps each header cell to its field. Every cell must be a
// known field key and appear at most once; fields absent from the header
// decode as empty strings.
func parseHeader(line string) ([]student.Field, error) {
	cells := strings.Split(line, ",")
	columns := make([]student.Field, len(cells))
	seen := make(map[student.Field]bool, len(cells))
	for i, cell := range cells {
		f, err := student.ParseField(strings.TrimSpace(cell))
		if err != nil {
			return nil, fmt.Errorf("header column %d: %w", i+1, err)
		}
		if seen[f] {
			return nil, fmt.Errorf("header column %d: duplicate field %q", i+1, f.Key())
		}
		seen[f] = true
		columns[i] = f
	}
	return columns, nil
}
