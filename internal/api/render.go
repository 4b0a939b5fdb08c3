package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/domain/order"
)

//go:embed templates
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money":         money,
	"orderStatus":   func(code int) order.Status { return order.Status(code) },
	"paymentStatus": func(code int) order.PaymentStatus { return order.PaymentStatus(code) },
	"orderDate":     orderDate,
	"paymentDate":   paymentDate,
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatDate(t time.Time, ok bool) string {
	if !ok {
		return "N/A"
	}
	return t.Format("January 2, 2006")
}

func orderDate(o backend.Order) string {
	return formatDate(o.Created())
}

func paymentDate(p backend.PaymentHistory) string {
	return formatDate(p.Created())
}

// view is what every page template receives
type view struct {
	Title     string
	Path      string
	User      *backend.User
	IsAdmin   bool
	CartCount int
	Flash     string
	Data      any
}

// Renderer holds one template set per page, each sharing the layout
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, v view) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
