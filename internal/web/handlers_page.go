package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/student"
	"github.com/JonMunkholm/roster/internal/web/templates"
)

// Banner texts for the redirect-after-post notices.
const (
	noticeAdded    = "Estudiante agregado correctamente"
	noticeImported = "Se importaron %d estudiantes"
)

// pageState is what varies between renders of the main page.
type pageState struct {
	draft  student.Draft
	errors map[student.Field]string
	notice templates.Notice
}

// renderPage renders the main page with the current records.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, st pageState) {
	templ.Handler(templates.Page(s.pageParams(st)), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Server) pageParams(st pageState) templates.PageParams {
	fields := student.Fields()

	p := templates.PageParams{
		Fields:  make([]templates.FieldView, len(fields)),
		Columns: make([]string, len(fields)),
		Notice:  st.notice,
	}
	for i, f := range fields {
		p.Fields[i] = templates.FieldView{
			Key:   f.Key(),
			Label: f.Label(),
			Value: st.draft.Get(f),
			Error: st.errors[f],
		}
		p.Columns[i] = f.Label()
	}

	for _, rec := range s.service.Records() {
		p.Rows = append(p.Rows, rec.Values())
	}

	exts := make([]string, 0, len(codec.Formats()))
	for _, f := range codec.Formats() {
		p.Exports = append(p.Exports, templates.FormatLink{
			Label: f.Label(),
			Href:  "/export/" + f.Name(),
		})
		exts = append(exts, "."+f.Ext())
	}
	p.Accept = strings.Join(exts, ",")

	return p
}

// handleIndex renders the form, the records and any post-redirect notice.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var notice templates.Notice

	q := r.URL.Query()
	switch q.Get("notice") {
	case "added":
		notice = templates.Notice{Kind: templates.NoticeSuccess, Message: noticeAdded}
	case "imported":
		n, _ := strconv.Atoi(q.Get("count"))
		notice = templates.Notice{Kind: templates.NoticeSuccess, Message: fmt.Sprintf(noticeImported, n)}
	}

	s.renderPage(w, r, http.StatusOK, pageState{notice: notice})
}

// handleSubmitForm adds a student from the HTML form. Invalid input
// re-renders the form with the values kept and every failing field marked.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err), http.StatusBadRequest)
		return
	}

	values := make(map[string]string, len(student.Keys()))
	for _, key := range student.Keys() {
		values[key] = r.PostForm.Get(key)
	}
	draft := student.DraftFromMap(values)

	_, err := s.service.Submit(r.Context(), draft)

	var fve *core.FieldValidationError
	if errors.As(err, &fve) {
		msg := core.MapError(err)
		s.renderPage(w, r, http.StatusUnprocessableEntity, pageState{
			draft:  draft,
			errors: fve.Errors,
			notice: templates.Notice{Kind: templates.NoticeError, Message: msg.Message},
		})
		return
	}
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	http.Redirect(w, r, "/?notice=added", http.StatusSeeOther)
}

// handleImportForm imports an uploaded file and redirects back to the page.
func (s *Server) handleImportForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.importUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/?notice=imported&count=%d", result.Imported), http.StatusSeeOther)
}

// handleExport serves the current records as estudiantes.<ext>.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := codec.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	exp, err := s.service.Export(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	if _, err := w.Write(exp.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}
