package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/joy095/taxibooking/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per content template.
const (
	Index   = "index"
	Success = "success"
	Error   = "error"
)

// Page carries the values the shared layout needs.
type Page struct {
	Title         string
	DesignEnabled bool
}

type FormPage struct {
	Page
	Form   models.BookingForm
	Errors models.ValidationErrors
}

// SummaryRow is one label/value line on the confirmation page.
type SummaryRow struct {
	Label string
	Value string
}

type SuccessPage struct {
	Page
	Summary []SummaryRow
}

type ErrorPage struct {
	Page
	Message string
	// Detail is diagnostic text, only filled in development.
	Detail string
}

// Renderer holds one template set per page, each parsed together with the
// layout. It also satisfies gin's render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}

// New parses the embedded layout and page templates.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{Index, Success, Error} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Execute renders page inside the layout. Output is buffered so a failing
// template never leaves a half-written page behind.
func (r *Renderer) Execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	return pageRender{renderer: r, page: name, data: data}
}

type pageRender struct {
	renderer *Renderer
	page     string
	data     any
}

var htmlContentType = []string{"text/html; charset=utf-8"}

func (p pageRender) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)
	return p.renderer.Execute(w, p.page, p.data)
}

func (p pageRender) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = htmlContentType
	}
}
