package student

import "golang.org/x/text/unicode/norm"

// Draft is the in-progress form state. It is a plain value: WithField
// returns an updated copy and never touches the receiver.
type Draft struct {
	Record
}

// WithField returns a copy of d with field f set to value. The value is
// normalized to NFC so decomposed accents ("o" + U+0301) compare equal to
// the precomposed letters the name rule accepts.
func WithField(d Draft, f Field, value string) Draft {
	d.Set(f, norm.NFC.String(value))
	return d
}

// DraftFromMap builds a draft from wire keys to raw values, as posted by an
// HTML form or a JSON body. Unknown keys are ignored and missing keys stay
// empty.
func DraftFromMap(values map[string]string) Draft {
	var d Draft
	for _, f := range fieldOrder {
		if v, ok := values[f.Key()]; ok {
			d = WithField(d, f, v)
		}
	}
	return d
}
