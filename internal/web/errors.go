package web

// errors.go turns service errors into responses.
//
// The technical error is logged with the request ID; the client only sees
// the mapped user message and its code. API routes get JSON, page routes
// get the page back with an error banner.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/student"
	"github.com/JonMunkholm/roster/internal/web/templates"
)

// errInvalidRequest is returned when a request body or form cannot be parsed.
var errInvalidRequest = errors.New("invalid request body")

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"` // failing fields by key
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var fve *core.FieldValidationError
	switch {
	case errors.As(err, &fve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codec.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyExport):
		return http.StatusConflict
	case errors.Is(err, codec.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNoFile), errors.Is(err, student.ErrUnknownField), errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		resp := ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		}
		var fve *core.FieldValidationError
		if errors.As(err, &fve) {
			resp.Errors = fve.ByKey()
		}
		writeJSON(w, statusCode, resp)
		return
	}

	s.renderPage(w, r, statusCode, pageState{
		notice: templates.Notice{
			Kind:    templates.NoticeError,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		},
	})
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
