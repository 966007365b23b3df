package whatsapp

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches the provider's positional markers, e.g. {{1}}.
var placeholderPattern = regexp.MustCompile(`\{\{\d+\}\}`)

// RenderBody substitutes positional variables into a template body. The
// i-th variable fills every occurrence of {{i+1}}. Any markers left after
// substitution are returned so callers can warn; templates are allowed to
// go out with fewer variables than placeholders (previews do this).
func RenderBody(body string, variables []string) (rendered string, leftover []string) {
	rendered = body
	for i, variable := range variables {
		placeholder := fmt.Sprintf("{{%d}}", i+1)
		rendered = strings.ReplaceAll(rendered, placeholder, variable)
	}
	return rendered, placeholderPattern.FindAllString(rendered, -1)
}

// Renderer resolves template names through the catalog and renders bodies.
type Renderer struct {
	catalog *Catalog
}

// NewRenderer wires a renderer to a catalog.
func NewRenderer(catalog *Catalog) *Renderer {
	if catalog == nil {
		panic("whatsapp: renderer requires a catalog")
	}
	return &Renderer{catalog: catalog}
}

// Render looks up a template by name and substitutes variables. Unknown
// names fail with a TemplateNotFoundError carrying the valid names.
func (r *Renderer) Render(name string, variables []string) (rendered string, leftover []string, err error) {
	tmpl, ok := r.catalog.Lookup(name)
	if !ok {
		return "", nil, &TemplateNotFoundError{Name: name, Available: r.catalog.Names()}
	}
	rendered, leftover = RenderBody(tmpl.Body, variables)
	return rendered, leftover, nil
}

// Preview renders a template without sending anything. Leftover markers are
// expected here and not reported.
func (r *Renderer) Preview(name string, variables []string) (string, error) {
	rendered, _, err := r.Render(name, variables)
	return rendered, err
}
