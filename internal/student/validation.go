package student

// validation.go holds the per-field format rules.
//
// Each field has one anchored pattern and one fixed message. The message
// never mentions the offending value; the form shows it next to the input.
// The date rule checks digit shape only, so 31/02/2024 passes. Space
// classes accept Unicode separators such as U+00A0 as well as ASCII
// whitespace.

import "regexp"

type rule struct {
	pattern *regexp.Regexp
	message string
}

var rules = [fieldCount]rule{
	FieldName: {
		pattern: regexp.MustCompile(`^[A-Za-zÁáÉéÍíÓóÚúÑñ\pZ\s]+$`),
		message: "El nombre debe contener solo letras y espacios.",
	},
	FieldCode: {
		pattern: regexp.MustCompile(`^[1-9]\d{7}$`),
		message: "El código debe tener 8 dígitos y no empezar con 0.",
	},
	FieldEnrollmentDate: {
		pattern: regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])/(0[1-9]|1[0-2])/\d{4}$`),
		message: "El formato de fecha debe ser DD/MM/YYYY.",
	},
	FieldAddress: {
		pattern: regexp.MustCompile(`^[A-Za-z0-9\pZ\s#-]+$`),
		message: "La dirección solo puede contener letras, números, espacios, # y -.",
	},
	FieldLandline: {
		pattern: regexp.MustCompile(`^6056\d{6}$`),
		message: "El teléfono fijo debe empezar con 6056 y tener 10 dígitos en total.",
	},
	FieldMobile: {
		pattern: regexp.MustCompile(`^3\d{9}$`),
		message: "El teléfono celular debe empezar con 3 y tener 10 dígitos en total.",
	},
	FieldEmail: {
		pattern: regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
		message: "Ingrese un correo electrónico válido.",
	},
}

// Result is the outcome of validating a single field.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"` // empty when Valid
}

// RecordResult is the outcome of validating all seven fields of a record.
type RecordResult struct {
	Valid  bool
	Errors map[Field]string // every failing field, never just the first
}

// Message returns the fixed error message for field f.
func Message(f Field) string {
	if !f.Valid() {
		return ""
	}
	return rules[f].message
}

// Validate checks raw against the pattern of field f. The whole string must
// match; the empty string fails every field.
func Validate(f Field, raw string) Result {
	if !f.Valid() {
		return Result{Valid: false}
	}
	r := rules[f]
	if r.pattern.MatchString(raw) {
		return Result{Valid: true}
	}
	return Result{Valid: false, Message: r.message}
}

// ValidateRecord validates every field of rec.
func ValidateRecord(rec Record) RecordResult {
	res := RecordResult{Valid: true, Errors: make(map[Field]string)}
	for _, f := range fieldOrder {
		if v := Validate(f, rec.Get(f)); !v.Valid {
			res.Valid = false
			res.Errors[f] = v.Message
		}
	}
	return res
}

// ErrorsByKey returns the failing fields keyed by wire key, for JSON output.
func (r RecordResult) ErrorsByKey() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for f, msg := range r.Errors {
		out[f.Key()] = msg
	}
	return out
}
