package core

import (
	"context"
	"io"
	"time"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/student"
)

// PreviewSummary contains the summary counts for an import preview.
type PreviewSummary struct {
	TotalRecords    int `json:"totalRecords"`
	ValidRecords    int `json:"validRecords"`
	InvalidRecords  int `json:"invalidRecords"`
	DuplicateInFile int `json:"duplicateInFile"` // records whose code appeared earlier in the file
}

// ErrorPreview is a decoded record that fails field validation.
type ErrorPreview struct {
	Record int               `json:"record"` // 1-based position in the file
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors"` // failing field key to message
}

// DuplicatePreview is a student code that appears more than once.
type DuplicatePreview struct {
	Code    string `json:"code"`
	Records []int  `json:"records"`
}

// PreviewResponse is the read-only analysis of an import file.
type PreviewResponse struct {
	Format           codec.Format       `json:"format"`
	Summary          PreviewSummary     `json:"summary"`
	ErrorSamples     []ErrorPreview     `json:"errorSamples"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Sample limits for the HTTP preview.
const (
	maxErrorSamples     = 20
	maxDuplicateSamples = 10
)

// PreviewImport decodes a file exactly like Import but leaves the store
// untouched, reporting which records would fail validation.
func (s *Service) PreviewImport(ctx context.Context, filename string, r io.Reader) (*PreviewResponse, error) {
	start := time.Now()

	c, records, err := s.decodeUpload(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	resp := AnalyzeRecords(records, maxErrorSamples, maxDuplicateSamples)
	resp.Format = c.Format()
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

// AnalyzeRecords validates every record and groups repeated student codes.
// A non-positive limit keeps every sample.
func AnalyzeRecords(records []student.Record, maxErrors, maxDuplicates int) *PreviewResponse {
	resp := &PreviewResponse{
		Summary:          PreviewSummary{TotalRecords: len(records)},
		ErrorSamples:     []ErrorPreview{},
		DuplicateSamples: []DuplicatePreview{},
	}

	seen := make(map[string][]int)
	var order []string

	for i, rec := range records {
		res := student.ValidateRecord(rec)
		if res.Valid {
			resp.Summary.ValidRecords++
		} else {
			resp.Summary.InvalidRecords++
			if maxErrors <= 0 || len(resp.ErrorSamples) < maxErrors {
				resp.ErrorSamples = append(resp.ErrorSamples, ErrorPreview{
					Record: i + 1,
					Values: recordValues(rec),
					Errors: res.ErrorsByKey(),
				})
			}
		}

		if rec.Code == "" {
			continue
		}
		if _, ok := seen[rec.Code]; !ok {
			order = append(order, rec.Code)
		} else {
			resp.Summary.DuplicateInFile++
		}
		seen[rec.Code] = append(seen[rec.Code], i+1)
	}

	for _, code := range order {
		if len(seen[code]) < 2 {
			continue
		}
		if maxDuplicates > 0 && len(resp.DuplicateSamples) >= maxDuplicates {
			break
		}
		resp.DuplicateSamples = append(resp.DuplicateSamples, DuplicatePreview{
			Code:    code,
			Records: seen[code],
		})
	}

	return resp
}

func recordValues(rec student.Record) map[string]string {
	values := make(map[string]string, len(student.Fields()))
	for _, f := range student.Fields() {
		values[f.Key()] = rec.Get(f)
	}
	return values
}
