package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/roster/internal/student"
)

var (
	// ErrEmptyExport is returned when an export is requested while the store
	// holds no records. No file is produced.
	ErrEmptyExport = errors.New("no records to export: empty export")

	// ErrFileTooLarge is returned when an import file exceeds the configured
	// size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when an import is requested without content.
	ErrNoFile = errors.New("no file provided")
)

// FieldValidationError is returned by Submit when one or more fields fail
// their rule. Errors holds every failing field with its fixed message.
type FieldValidationError struct {
	Errors map[student.Field]string
}

func (e *FieldValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		keys = append(keys, f.Key())
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid field: %s", strings.Join(keys, ", "))
}

// ByKey returns the failing fields keyed by wire key.
func (e *FieldValidationError) ByKey() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for f, msg := range e.Errors {
		out[f.Key()] = msg
	}
	return out
}
