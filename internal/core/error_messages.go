// # Error Codes Reference
//
// User-facing messages carry a code so a report can be traced back to the
// technical error in the logs. Codes are grouped by category:
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid form: one or more fields failed their rule
//	         Patterns: "invalid field"
//
//	VAL002 - Unknown field: the field key is not part of a student record
//	         Patterns: "unknown field"
//
//	VAL003 - Bad request: the request body could not be read
//	         Patterns: "invalid request"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Decode failed: the file content does not match its format
//	         Patterns: "decode failed"
//
//	IMP002 - System busy: too many imports in progress
//	         Patterns: "too many imports"
//
//	IMP003 - Request cancelled
//	         Patterns: "context canceled"
//
//	IMP004 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	          Patterns: "file too large"
//
//	FILE002 - Unsupported file type: extension is not txt, csv, xml or json
//	          Patterns: "unsupported file type"
//
//	FILE003 - Encoding error: file is not valid UTF-8 or UTF-16 with BOM
//	          Patterns: "encoding error"
//
//	FILE004 - No file selected
//	          Patterns: "no file provided"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Empty export: the store holds no records
//	         Patterns: "empty export"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so a decode error whose cause mentions an unknown
// field still maps to IMP001.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Order matters: specific patterns before general ones.
var errorPatterns = []errorPattern{
	// Import
	{
		pattern: "decode failed",
		msg: UserMessage{
			Message: "Error al importar el archivo. Verifique el formato.",
			Action:  "Revise que el contenido corresponda a la extensión del archivo",
			Code:    "IMP001",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "Hay demasiadas importaciones en curso",
			Action:  "Espere un momento e intente de nuevo",
			Code:    "IMP002",
		},
	},

	// Validation
	{
		pattern: "invalid field",
		msg: UserMessage{
			Message: "Por favor corrija los errores en el formulario",
			Action:  "Revise los campos marcados",
			Code:    "VAL001",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Campo desconocido",
			Action:  "Use uno de los campos del formulario",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "Solicitud inválida",
			Action:  "Revise los datos enviados",
			Code:    "VAL003",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "El archivo excede el tamaño máximo permitido",
			Action:  "Divida el archivo en partes más pequeñas",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Tipo de archivo no soportado",
			Action:  "Use un archivo .txt, .csv, .xml o .json",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "El archivo contiene caracteres inválidos",
			Action:  "Guarde el archivo con codificación UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No se seleccionó ningún archivo",
			Action:  "Seleccione un archivo para importar",
			Code:    "FILE004",
		},
	},

	// Export
	{
		pattern: "empty export",
		msg: UserMessage{
			Message: "No hay datos para exportar",
			Action:  "Agregue o importe estudiantes primero",
			Code:    "EXP001",
		},
	},

	// Request lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "La solicitud fue cancelada",
			Action:  "Intente de nuevo",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "La solicitud tardó demasiado",
			Action:  "Intente con un archivo más pequeño",
			Code:    "IMP004",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Ocurrió un error inesperado",
	Action:  "Intente de nuevo",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It
// returns the first matching pattern, or ERR000 when nothing matches.
//
//	msg := MapError(ErrEmptyExport)
//	// msg.Code == "EXP001"
//	// msg.Message == "No hay datos para exportar"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Código: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Código: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
