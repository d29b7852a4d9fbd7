package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/JonMunkholm/roster/internal/student"
)

const xmlRecordTag = "student"

// xmlDocument is the export layout: <students><student>...</student></students>.
type xmlDocument struct {
	XMLName  xml.Name         `xml:"students"`
	Students []student.Record `xml:"student"`
}

// xmlCodec writes a UTF-8 declared document with one <student> element per
// record and one child element per field. Decoding collects every
// <student> element wherever it appears, like a by-tag-name lookup.
type xmlCodec struct{}

func (xmlCodec) Format() Format { return FormatXML }

func (xmlCodec) Encode(records []student.Record) ([]byte, error) {
	body, err := xml.MarshalIndent(xmlDocument{Students: records}, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body))
	out = append(out, xml.Header...)
	return append(out, body...), nil
}

func (xmlCodec) Decode(data []byte) ([]student.Record, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	records := []student.Record{}
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeError(FormatXML, lineOf(err), err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if se.Name.Local != xmlRecordTag {
			continue
		}

		// Missing field elements leave the zero value, an empty string.
		var rec student.Record
		if err := dec.DecodeElement(&rec, &se); err != nil {
			return nil, decodeError(FormatXML, lineOf(err), err)
		}
		records = append(records, rec)
	}

	if !sawRoot {
		return nil, decodeError(FormatXML, 0, errors.New("document has no root element"))
	}
	return records, nil
}

// charsetReader transcodes documents that declare a non UTF-8 encoding,
// such as ISO-8859-1 or windows-1252, by IANA name.
func charsetReader(label string, in io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(in), nil
}

// lineOf extracts the line number from an XML syntax error.
func lineOf(err error) int {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return se.Line
	}
	return 0
}
