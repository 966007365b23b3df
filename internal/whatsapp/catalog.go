package whatsapp

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Template categories mirror the provider's approval taxonomy.
const (
	CategoryMarketing      = "MARKETING"
	CategoryUtility        = "UTILITY"
	CategoryAuthentication = "AUTHENTICATION"
)

// Template approval states. The built-in catalog only holds APPROVED
// entries; user-submitted templates move through the full lifecycle in the
// persistence store.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Template is a provider-approved message body with positional placeholders.
type Template struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Language  string   `json:"language"`
	Body      string   `json:"body"`
	Variables []string `json:"variables"`
	Status    string   `json:"status"`
}

//go:embed templates.json
var seedTemplates []byte

// Catalog is a read-only registry of approved templates, built once at
// startup. It holds no mutable state, so concurrent lookups need no locking.
type Catalog struct {
	templates []Template
	byName    map[string]int
}

// NewCatalog builds the catalog from the embedded seed data.
func NewCatalog() (*Catalog, error) {
	return NewCatalogFromJSON(seedTemplates)
}

// NewCatalogFromJSON builds a catalog from a JSON template list, preserving
// order and rejecting duplicate names.
func NewCatalogFromJSON(data []byte) (*Catalog, error) {
	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("whatsapp: parse template catalog: %w", err)
	}
	byName := make(map[string]int, len(templates))
	for i, tmpl := range templates {
		if tmpl.Name == "" {
			return nil, fmt.Errorf("whatsapp: template at index %d has no name", i)
		}
		if _, exists := byName[tmpl.Name]; exists {
			return nil, fmt.Errorf("whatsapp: duplicate template name %q", tmpl.Name)
		}
		byName[tmpl.Name] = i
	}
	return &Catalog{templates: templates, byName: byName}, nil
}

// Lookup returns the template with the given name.
func (c *Catalog) Lookup(name string) (Template, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Names returns template names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.templates))
	for i, tmpl := range c.templates {
		names[i] = tmpl.Name
	}
	return names
}

// All returns every catalog entry in order.
func (c *Catalog) All() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}
