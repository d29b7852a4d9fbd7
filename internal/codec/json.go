package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/student"
)

// jsonCodec writes the sequence as one array of objects, indented by two
// spaces. Decoded values are trusted; only the array of objects shape, the
// exact key spelling and the string value types are checked. Unknown keys
// are ignored.
type jsonCodec struct{}

func (jsonCodec) Format() Format { return FormatJSON }

func (jsonCodec) Encode(records []student.Record) ([]byte, error) {
	if records == nil {
		records = []student.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	// Encoder terminates every value with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (jsonCodec) Decode(data []byte) ([]student.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, decodeError(FormatJSON, 0, errors.New("document is not a JSON array"))
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, decodeError(FormatJSON, 0, err)
	}

	records := make([]student.Record, 0, len(elems))
	for i, raw := range elems {
		rec, err := decodeJSONRecord(raw)
		if err != nil {
			return nil, decodeError(FormatJSON, 0, fmt.Errorf("element %d: %w", i+1, err))
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeJSONRecord requires an object. Keys match field keys exactly;
// encoding/json alone would also fill fields from "NAME" or "Code".
func decodeJSONRecord(raw json.RawMessage) (student.Record, error) {
	var obj map[string]json.RawMessage
	if len(raw) == 0 || raw[0] != '{' {
		return student.Record{}, errors.New("element is not an object")
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return student.Record{}, err
	}

	var rec student.Record
	for key, val := range obj {
		f, err := student.ParseField(key)
		if err != nil {
			if k, ok := foldedKey(key); ok {
				return student.Record{}, fmt.Errorf("key %q must be spelled %q", key, k)
			}
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return student.Record{}, fmt.Errorf("key %q: %w", key, err)
		}
		rec.Set(f, s)
	}
	return rec, nil
}

// foldedKey reports the field key that key matches ignoring case.
func foldedKey(key string) (string, bool) {
	for _, k := range student.Keys() {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}
