// Package render draws the listing page served by the engine.
package render

import (
	"embed"
	"html/template"
	"io"

	"jobboard-engine/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page is everything the listing template needs.
type Page struct {
	Jobs     []domain.Job
	Selected []string
	Active   bool
	Total    int
}

// Listing writes the full HTML page for p.
func Listing(w io.Writer, p Page) error {
	return pageTmpl.ExecuteTemplate(w, "page", p)
}
