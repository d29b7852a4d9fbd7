package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/student"
)

// Service provides the roster operations used by the web handlers.
type Service struct {
	store       *RecordStore
	limiter     *ImportLimiter
	maxFileSize int64
}

// NewService creates a Service over store. A nil store starts empty.
func NewService(store *RecordStore, cfg config.ImportConfig) *Service {
	if store == nil {
		store = NewRecordStore()
	}
	return &Service{
		store:       store,
		limiter:     NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		maxFileSize: cfg.MaxFileSize,
	}
}

// ValidateField checks a single raw value against the rule for the field
// named by key. Used for per-keystroke feedback. The value goes through the
// same draft normalization as Submit, so both agree on every input.
func (s *Service) ValidateField(key, value string) (student.Result, error) {
	f, err := student.ParseField(key)
	if err != nil {
		return student.Result{}, err
	}
	d := student.WithField(student.Draft{}, f, value)
	return student.Validate(f, d.Get(f)), nil
}

// Submit validates every field of the draft and, when all pass, appends
// the record. On failure nothing is stored and the error is a
// *FieldValidationError listing each failing field.
func (s *Service) Submit(ctx context.Context, draft student.Draft) (student.Record, error) {
	rec := draft.Record

	res := student.ValidateRecord(rec)
	if !res.Valid {
		logging.FromContext(ctx).Debug("submit rejected", "fields", len(res.Errors))
		return student.Record{}, &FieldValidationError{Errors: res.Errors}
	}

	s.store.Append(rec)

	logger := logging.WithFields(ctx, callerAttrs(ctx)...)
	logger.Info("student added", "code", rec.Code, "total", s.store.Count())

	return rec, nil
}

// Records returns every stored record in insertion order.
func (s *Service) Records() []student.Record {
	return s.store.All()
}

// Count returns the number of stored records.
func (s *Service) Count() int {
	return s.store.Count()
}

// Export encodes the current records in format f. An empty store returns
// ErrEmptyExport without encoding anything.
func (s *Service) Export(ctx context.Context, f codec.Format) (Export, error) {
	c, err := codec.For(f)
	if err != nil {
		return Export{}, err
	}

	records := s.store.All()
	if len(records) == 0 {
		return Export{}, ErrEmptyExport
	}

	data, err := c.Encode(records)
	if err != nil {
		return Export{}, fmt.Errorf("encode %s: %w", f, err)
	}

	logging.FromContext(ctx).Info("export generated",
		"format", f.Name(),
		"count", len(records),
		"bytes", len(data),
	)

	return Export{
		Filename:    codec.Filename(f),
		ContentType: f.ContentType(),
		Format:      f,
		Data:        data,
		Count:       len(records),
	}, nil
}

// Import decodes the file read from r with the codec matching the
// extension of filename and appends every decoded record in file order.
//
// Decoding is all-or-nothing: a malformed file leaves the store unchanged
// and returns an error wrapping codec.ErrDecode. Decoded records are not
// validated; ImportResult.Invalid counts those that would fail.
func (s *Service) Import(ctx context.Context, filename string, r io.Reader) (ImportResult, error) {
	id := uuid.New()
	ctx = withImportID(ctx, id)
	start := time.Now()

	c, records, err := s.decodeUpload(ctx, filename, r)
	if err != nil {
		return ImportResult{}, err
	}

	// The request may have been abandoned while decoding a large file.
	if err := ctx.Err(); err != nil {
		return ImportResult{}, err
	}

	invalid := 0
	for _, rec := range records {
		if !student.ValidateRecord(rec).Valid {
			invalid++
		}
	}

	s.store.AppendMany(records)
	total := s.store.Count()

	logger := importLogger(ctx, filename, c.Format())
	if invalid > 0 {
		logger.Warn("imported records fail validation", "invalid", invalid, "imported", len(records))
	}
	logger.Info("import completed",
		"imported", len(records),
		"total", total,
		"duration", time.Since(start),
	)

	return ImportResult{
		ID:       id,
		FileName: filename,
		Format:   c.Format(),
		Imported: len(records),
		Invalid:  invalid,
		Total:    total,
	}, nil
}

// decodeUpload runs the shared front half of Import and PreviewImport:
// codec selection, an import slot, the size-capped read and the decode.
func (s *Service) decodeUpload(ctx context.Context, filename string, r io.Reader) (codec.Codec, []student.Record, error) {
	if filename == "" || r == nil {
		return nil, nil, ErrNoFile
	}

	c, err := codec.ForFilename(filename)
	if err != nil {
		return nil, nil, err
	}

	logger := importLogger(ctx, filename, c.Format())

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("import rejected", "error", err)
		return nil, nil, err
	}
	defer s.limiter.Release()

	data, err := ReadImport(r, s.maxFileSize)
	if err != nil {
		logger.Warn("import read failed", "error", err)
		return nil, nil, err
	}

	records, err := c.Decode(data)
	if err != nil {
		logger.Warn("import decode failed", "error", err, "bytes", len(data))
		return nil, nil, fmt.Errorf("import %s: %w", filename, err)
	}

	return c, records, nil
}

func importLogger(ctx context.Context, filename string, f codec.Format) *slog.Logger {
	args := []any{"file", filename, "format", f.Name()}
	if id, ok := importIDFromContext(ctx); ok {
		args = append(args, "import_id", id.String())
	}
	return logging.WithFields(ctx, append(args, callerAttrs(ctx)...)...)
}

// ImportLimiterStatus reports how many import slots are in use.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	if err := s.limiter.WaitForDrain(ctx); err != nil {
		return fmt.Errorf("wait for imports: %w", err)
	}
	return nil
}

// IsDecodeError reports whether err came from a malformed import file.
func IsDecodeError(err error) bool {
	return errors.Is(err, codec.ErrDecode)
}
