// Package student defines the student record, its seven fields and the
// per-field format rules applied to raw form input.
package student

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a field key is not one of the seven
// record fields.
var ErrUnknownField = errors.New("unknown field")

// Field identifies one of the seven record fields.
type Field int

const (
	FieldName Field = iota
	FieldCode
	FieldEnrollmentDate
	FieldAddress
	FieldLandline
	FieldMobile
	FieldEmail
)

// fieldCount is the number of record fields.
const fieldCount = 7

// fieldOrder is the fixed field order used by every codec and by the UI.
var fieldOrder = [fieldCount]Field{
	FieldName,
	FieldCode,
	FieldEnrollmentDate,
	FieldAddress,
	FieldLandline,
	FieldMobile,
	FieldEmail,
}

var fieldKeys = [fieldCount]string{
	FieldName:           "name",
	FieldCode:           "code",
	FieldEnrollmentDate: "enrollmentDate",
	FieldAddress:        "address",
	FieldLandline:       "landline",
	FieldMobile:         "mobile",
	FieldEmail:          "email",
}

var fieldLabels = [fieldCount]string{
	FieldName:           "Nombre Completo",
	FieldCode:           "Código de Estudiante",
	FieldEnrollmentDate: "Fecha de Ingreso",
	FieldAddress:        "Dirección",
	FieldLandline:       "Teléfono Fijo",
	FieldMobile:         "Teléfono Celular",
	FieldEmail:          "Correo Electrónico",
}

// Fields returns all fields in the fixed record order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	copy(out, fieldOrder[:])
	return out
}

// Keys returns the wire keys of all fields in the fixed record order.
func Keys() []string {
	out := make([]string, fieldCount)
	for i, f := range fieldOrder {
		out[i] = fieldKeys[f]
	}
	return out
}

// ParseField maps a wire key ("name", "enrollmentDate", ...) to its Field.
// Matching is exact: keys are case-sensitive, as they are in every format.
func ParseField(key string) (Field, error) {
	for _, f := range fieldOrder {
		if fieldKeys[f] == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, key)
}

// Valid reports whether f is one of the seven record fields.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < fieldCount
}

// Key returns the wire key used in CSV headers, XML tags and JSON objects.
func (f Field) Key() string {
	if !f.Valid() {
		return ""
	}
	return fieldKeys[f]
}

// Label returns the display label shown next to the form input.
func (f Field) Label() string {
	if !f.Valid() {
		return ""
	}
	return fieldLabels[f]
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldKeys[f]
}

// Record is one student entry. Every field is stored as the raw string the
// user typed or the import file contained.
type Record struct {
	Name           string `json:"name" xml:"name"`
	Code           string `json:"code" xml:"code"`
	EnrollmentDate string `json:"enrollmentDate" xml:"enrollmentDate"`
	Address        string `json:"address" xml:"address"`
	Landline       string `json:"landline" xml:"landline"`
	Mobile         string `json:"mobile" xml:"mobile"`
	Email          string `json:"email" xml:"email"`
}

// Get returns the value of field f. Unknown fields yield "".
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldCode:
		return r.Code
	case FieldEnrollmentDate:
		return r.EnrollmentDate
	case FieldAddress:
		return r.Address
	case FieldLandline:
		return r.Landline
	case FieldMobile:
		return r.Mobile
	case FieldEmail:
		return r.Email
	default:
		return ""
	}
}

// Set assigns v to field f. Unknown fields are ignored.
func (r *Record) Set(f Field, v string) {
	switch f {
	case FieldName:
		r.Name = v
	case FieldCode:
		r.Code = v
	case FieldEnrollmentDate:
		r.EnrollmentDate = v
	case FieldAddress:
		r.Address = v
	case FieldLandline:
		r.Landline = v
	case FieldMobile:
		r.Mobile = v
	case FieldEmail:
		r.Email = v
	}
}

// Values returns the seven field values in the fixed record order.
func (r Record) Values() []string {
	out := make([]string, fieldCount)
	for i, f := range fieldOrder {
		out[i] = r.Get(f)
	}
	return out
}

// FromValues builds a Record from exactly seven positional values in the
// fixed record order.
func FromValues(values []string) (Record, error) {
	if len(values) != fieldCount {
		return Record{}, fmt.Errorf("expected %d values, got %d", fieldCount, len(values))
	}
	var r Record
	for i, f := range fieldOrder {
		r.Set(f, values[i])
	}
	return r, nil
}
