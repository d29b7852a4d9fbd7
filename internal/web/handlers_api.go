package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/student"
)

// validateRequest is the body of POST /api/validate.
type validateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// studentList is the body of GET /api/students.
type studentList struct {
	Count    int              `json:"count"`
	Students []student.Record `json:"students"`
}

// handleValidate checks one field value. Used on every keystroke.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := s.service.ValidateField(req.Field, req.Value)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleListStudents returns every stored record in insertion order.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	records := s.service.Records()
	writeJSON(w, http.StatusOK, studentList{Count: len(records), Students: records})
}

// handleCreateStudent submits a record given as a JSON object keyed by
// field key.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeJSON(w, r, &values); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rec, err := s.service.Submit(r.Context(), student.DraftFromMap(values))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// handleImportAPI imports a multipart file and returns the ImportResult.
func (s *Server) handleImportAPI(w http.ResponseWriter, r *http.Request) {
	result, err := s.importUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePreviewImport decodes a multipart file without storing it and
// reports which records would fail validation.
func (s *Server) handlePreviewImport(w http.ResponseWriter, r *http.Request) {
	file, filename, err := s.openUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	preview, err := s.service.PreviewImport(r.Context(), filename, file)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// handleHealth reports liveness along with store and limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.service.Count(),
		"imports": s.service.ImportLimiterStatus(),
	})
}

// importUpload reads the "file" part of a multipart request and hands it
// to the service.
func (s *Server) importUpload(w http.ResponseWriter, r *http.Request) (core.ImportResult, error) {
	file, filename, err := s.openUpload(w, r)
	if err != nil {
		return core.ImportResult{}, err
	}
	defer file.Close()

	return s.service.Import(r.Context(), filename, file)
}

// openUpload parses a size-capped multipart form and opens its "file" part.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, "", fmt.Errorf("%w: exceeds %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return nil, "", fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", core.ErrNoFile
	}
	return file, header.Filename, nil
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}
