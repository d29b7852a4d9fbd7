package codec

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/student"
)

// textCodec writes one record per line with the seven values separated by
// tabs in the fixed field order. There is no header and no escaping: a
// value containing a tab or a newline cannot round-trip.
type textCodec struct{}

func (textCodec) Format() Format { return FormatText }

func (textCodec) Encode(records []student.Record) ([]byte, error) {
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(rec.Values(), "\t"))
	}
	return []byte(b.String()), nil
}

func (textCodec) Decode(data []byte) ([]student.Record, error) {
	lines := splitLines(data)
	records := make([]student.Record, 0, len(lines))
	for i, line := range lines {
		values := strings.Split(line, "\t")
		rec, err := student.FromValues(values)
		if err != nil {
			return nil, decodeError(FormatText, i+1, fmt.Errorf("%w (line must hold %d tab-separated values)", err, len(student.Keys())))
		}
		records = append(records, rec)
	}
	return records, nil
}

// splitLines splits a document into lines. Trailing line breaks are dropped
// and so is a carriage return at the end of each line, so files saved with
// CRLF endings decode the same as LF files. An empty document has no lines.
func splitLines(data []byte) []string {
	s := strings.TrimRight(string(data), "\r\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
