// Package templates renders the roster's HTML as templ components.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// NoticeKind selects the banner style.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the banner shown above the form. A zero Notice renders nothing.
type Notice struct {
	Kind    NoticeKind
	Message string
	Action  string
	Code    string
}

// FieldView is one form input with its current value and error text.
type FieldView struct {
	Key   string
	Label string
	Value string
	Error string
}

// FormatLink is an export button.
type FormatLink struct {
	Label string
	Href  string
}

// PageParams carries everything the main page shows.
type PageParams struct {
	Fields  []FieldView
	Columns []string   // table header labels, in field order
	Rows    [][]string // stored records, in insertion order
	Exports []FormatLink
	Accept  string // accept attribute of the import input
	Notice  Notice
}

// Page renders the full document: form, notice, import and export controls,
// and the records table.
func Page(p PageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>Registro de Estudiantes</title>`)
		hw.raw(pageStyle)
		hw.raw(`</head><body><main>`)
		hw.raw(`<h1>Registro de Estudiantes</h1>`)

		if err := hw.component(ctx, NoticeBanner(p.Notice)); err != nil {
			return err
		}

		hw.raw(`<form id="student-form" method="post" action="/students" novalidate>`)
		for _, f := range p.Fields {
			writeField(hw, f)
		}
		hw.raw(`<button type="submit">Agregar Estudiante</button></form>`)

		hw.raw(`<section class="io"><h2>Exportar</h2><div class="exports">`)
		for _, l := range p.Exports {
			hw.raw(`<a class="button" href="`)
			hw.attr(l.Href)
			hw.raw(`">`)
			hw.text(l.Label)
			hw.raw(`</a>`)
		}
		hw.raw(`</div><h2>Importar</h2>`)
		hw.raw(`<form method="post" action="/import" enctype="multipart/form-data">`)
		hw.raw(`<input type="file" name="file" required accept="`)
		hw.attr(p.Accept)
		hw.raw(`"><button type="submit">Importar</button></form></section>`)

		hw.raw(`<section><h2>Estudiantes Registrados (`)
		hw.text(strconv.Itoa(len(p.Rows)))
		hw.raw(`)</h2>`)
		writeTable(hw, p.Columns, p.Rows)
		hw.raw(`</section></main>`)
		hw.raw(validateScript)
		hw.raw(`</body></html>`)

		return hw.err
	})
}

// NoticeBanner renders a success or error banner.
func NoticeBanner(n Notice) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if n.Message == "" {
			return nil
		}
		hw := &htmlWriter{w: w}
		hw.raw(`<div role="alert" class="notice notice-`)
		hw.attr(string(n.Kind))
		hw.raw(`"><strong>`)
		hw.text(n.Message)
		hw.raw(`</strong>`)
		if n.Action != "" {
			hw.raw(` <span>`)
			hw.text(n.Action)
			hw.raw(`</span>`)
		}
		if n.Code != "" {
			hw.raw(` <small>(Código: `)
			hw.text(n.Code)
			hw.raw(`)</small>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

func writeField(hw *htmlWriter, f FieldView) {
	id := "field-" + f.Key
	hw.raw(`<div class="field"><label for="`)
	hw.attr(id)
	hw.raw(`">`)
	hw.text(f.Label)
	hw.raw(`</label><input type="text" id="`)
	hw.attr(id)
	hw.raw(`" name="`)
	hw.attr(f.Key)
	hw.raw(`" data-field="`)
	hw.attr(f.Key)
	hw.raw(`" value="`)
	hw.attr(f.Value)
	hw.raw(`"`)
	if f.Error != "" {
		hw.raw(` aria-invalid="true"`)
	}
	hw.raw(`><p class="error" data-error-for="`)
	hw.attr(f.Key)
	hw.raw(`">`)
	hw.text(f.Error)
	hw.raw(`</p></div>`)
}

func writeTable(hw *htmlWriter, columns []string, rows [][]string) {
	if len(rows) == 0 {
		hw.raw(`<p class="empty">No hay estudiantes registrados</p>`)
		return
	}
	hw.raw(`<table><thead><tr>`)
	for _, c := range columns {
		hw.raw(`<th>`)
		hw.text(c)
		hw.raw(`</th>`)
	}
	hw.raw(`</tr></thead><tbody>`)
	for _, row := range rows {
		hw.raw(`<tr>`)
		for _, v := range row {
			hw.raw(`<td>`)
			hw.text(v)
			hw.raw(`</td>`)
		}
		hw.raw(`</tr>`)
	}
	hw.raw(`</tbody></table>`)
}

// htmlWriter keeps the first write error so rendering code stays linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr escapes a value placed inside a double-quoted attribute.
func (hw *htmlWriter) attr(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) component(ctx context.Context, c templ.Component) error {
	if hw.err != nil {
		return hw.err
	}
	hw.err = c.Render(ctx, hw.w)
	return hw.err
}

const pageStyle = `<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6f8;color:#1f2933}
main{max-width:960px;margin:0 auto;padding:2rem 1rem}
form#student-form{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:1rem;background:#fff;padding:1.5rem;border-radius:8px}
.field label{display:block;font-weight:600;margin-bottom:.25rem}
.field input{width:100%;padding:.5rem;box-sizing:border-box;border:1px solid #cbd2d9;border-radius:4px}
.field input[aria-invalid=true]{border-color:#d64545}
.error{color:#d64545;font-size:.85rem;min-height:1rem;margin:.25rem 0 0}
.notice{padding:.75rem 1rem;border-radius:6px;margin-bottom:1rem}
.notice-success{background:#e3f9e5;color:#207227}
.notice-error{background:#ffe3e3;color:#8a041a}
.exports{display:flex;gap:.5rem;flex-wrap:wrap}
.button,button{padding:.5rem 1rem;border-radius:4px;border:0;background:#2680c2;color:#fff;text-decoration:none;cursor:pointer}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{padding:.5rem;border-bottom:1px solid #e4e7eb;text-align:left;font-size:.9rem}
</style>`

// validateScript asks the server to check each field as it is typed.
const validateScript = `<script>
document.querySelectorAll("input[data-field]").forEach(function (input) {
  input.addEventListener("input", function () {
    fetch("/api/validate", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({field: input.dataset.field, value: input.value})
    }).then(function (r) { return r.json(); }).then(function (res) {
      var msg = document.querySelector('[data-error-for="' + input.dataset.field + '"]');
      if (msg) { msg.textContent = res.valid ? "" : res.message; }
      input.setAttribute("aria-invalid", res.valid ? "false" : "true");
    });
  });
});
</script>`
