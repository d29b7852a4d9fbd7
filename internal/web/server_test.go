package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/student"
)

var ana = student.Record{
	Name:           "Ana",
	Code:           "12345678",
	EnrollmentDate: "01/02/2023",
	Address:        "Calle 1 #2-3",
	Landline:       "6056123456",
	Mobile:         "3001234567",
	Email:          "ana@x.co",
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 5 * time.Second,
		},
		Import: config.ImportConfig{
			MaxFileSize:   1 << 16,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, seed ...student.Record) (*Server, *core.Service) {
	t.Helper()
	cfg := testConfig()
	svc := core.NewService(core.NewRecordStore(seed...), cfg.Import)
	return NewServer(svc, cfg), svc
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte(content))
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func formValues(rec student.Record) url.Values {
	v := url.Values{}
	for _, f := range student.Fields() {
		v.Set(f.Key(), rec.Get(f))
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, ana)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["records"] != float64(1) {
		t.Errorf("body = %v", body)
	}
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, ana)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/?notice=imported&count=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Nombre Completo", "Calle 1 #2-3", "Se importaron 3 estudiantes", `href="/export/csv"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestSubmitForm(t *testing.T) {
	s, svc := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(formValues(ana).Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(s, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?notice=added" {
		t.Errorf("Location = %q", loc)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestSubmitForm_Invalid(t *testing.T) {
	s, svc := newTestServer(t)

	bad := ana
	bad.Code = "02345678"
	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(formValues(bad).Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(s, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Por favor corrija los errores en el formulario") {
		t.Error("missing form error banner")
	}
	if !strings.Contains(body, student.Message(student.FieldCode)) {
		t.Error("missing code field message")
	}
	if !strings.Contains(body, `value="02345678"`) {
		t.Error("submitted value not kept in the form")
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}
}

func TestValidateAPI(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValid  bool
	}{
		{"valid mobile", `{"field":"mobile","value":"3001234567"}`, http.StatusOK, true},
		{"invalid mobile", `{"field":"mobile","value":"2001234567"}`, http.StatusOK, false},
		{"decomposed accent name", `{"field":"name","value":"Jose\u0301"}`, http.StatusOK, true},
		{"unknown field", `{"field":"age","value":"20"}`, http.StatusBadRequest, false},
		{"malformed body", `{"field":`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(s, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var res student.Result
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", res.Valid, tt.wantValid)
			}
			if !res.Valid && res.Message != student.Message(student.FieldMobile) {
				t.Errorf("message = %q", res.Message)
			}
		})
	}
}

func TestCreateStudentAPI(t *testing.T) {
	s, svc := newTestServer(t)

	body, _ := json.Marshal(ana)
	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var got student.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != ana {
		t.Errorf("created = %+v", got)
	}

	list := serve(s, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	var students studentList
	if err := json.Unmarshal(list.Body.Bytes(), &students); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if students.Count != 1 || svc.Count() != 1 {
		t.Errorf("list count = %d, store count = %d", students.Count, svc.Count())
	}
}

func TestCreateStudentAPI_Invalid(t *testing.T) {
	s, _ := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(`{"name":"Ana"}`)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "VAL001" {
		t.Errorf("code = %q, want VAL001", resp.Code)
	}
	if len(resp.Errors) != 6 {
		t.Errorf("got %d field errors, want 6: %v", len(resp.Errors), resp.Errors)
	}
	if _, ok := resp.Errors["name"]; ok {
		t.Error("valid name reported as failing")
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t, ana)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/export/json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="estudiantes.json"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	var got []student.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0] != ana {
		t.Errorf("exported = %+v", got)
	}
}

func TestExport_Empty(t *testing.T) {
	s, _ := newTestServer(t)

	page := serve(s, httptest.NewRequest(http.MethodGet, "/export/csv", nil))
	if page.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", page.Code)
	}
	if !strings.Contains(page.Body.String(), "No hay datos para exportar") {
		t.Error("missing empty export notice")
	}

	api := serve(s, httptest.NewRequest(http.MethodGet, "/api/export/csv", nil))
	if api.Code != http.StatusConflict {
		t.Fatalf("api status = %d, want 409", api.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(api.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "EXP001" {
		t.Errorf("code = %q, want EXP001", resp.Code)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	s, _ := newTestServer(t, ana)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/export/pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestImportForm(t *testing.T) {
	s, svc := newTestServer(t)

	body, contentType := multipartFile(t, "estudiantes.txt", strings.Join(ana.Values(), "\t"))
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(s, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body)
	}
	if loc := rec.Header().Get("Location"); loc != "/?notice=imported&count=1" {
		t.Errorf("Location = %q", loc)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d", svc.Count())
	}
}

func TestImportForm_Malformed(t *testing.T) {
	s, svc := newTestServer(t, ana)

	body, contentType := multipartFile(t, "estudiantes.json", `{"name":"Ana"}`)
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(s, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error al importar el archivo. Verifique el formato.") {
		t.Error("missing import failure notice")
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestImportAPI(t *testing.T) {
	s, _ := newTestServer(t)

	csv := "code,name\n0,Luis"
	body, contentType := multipartFile(t, "lista.CSV", csv)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res["format"] != "csv" || res["imported"] != float64(1) || res["invalid"] != float64(1) {
		t.Errorf("result = %v", res)
	}
}

func TestImportAPI_Errors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name       string
		filename   string
		content    string
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", "notas.pdf", "x", http.StatusUnsupportedMediaType, "FILE002"},
		{"too large", "big.txt", strings.Repeat("a", 1<<16+1), http.StatusRequestEntityTooLarge, "FILE001"},
		{"malformed xml", "e.xml", "<students>", http.StatusUnprocessableEntity, "IMP001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartFile(t, tt.filename, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/api/import", body)
			req.Header.Set("Content-Type", contentType)
			rec := serve(s, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestImportAPI_NoFile(t *testing.T) {
	s, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("other", "x")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPreviewImportAPI(t *testing.T) {
	s, svc := newTestServer(t)

	content := strings.Join(ana.Values(), "\t") + "\n" + strings.Join(ana.Values(), "\t")
	body, contentType := multipartFile(t, "lista.txt", content)
	req := httptest.NewRequest(http.MethodPost, "/api/import/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp core.PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Format != codec.FormatText {
		t.Errorf("format = %v", resp.Format)
	}
	want := core.PreviewSummary{TotalRecords: 2, ValidRecords: 2, DuplicateInFile: 1}
	if resp.Summary != want {
		t.Errorf("summary = %+v, want %+v", resp.Summary, want)
	}
	if svc.Count() != 0 {
		t.Errorf("preview stored %d records", svc.Count())
	}
}

func TestPreviewImportAPI_Unsupported(t *testing.T) {
	s, _ := newTestServer(t)

	body, contentType := multipartFile(t, "notas.pdf", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/import/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := serve(s, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}
