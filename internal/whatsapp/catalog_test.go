package whatsapp

import (
	"strings"
	"testing"
)

func TestNewCatalogSeedsApprovedTemplates(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	wantNames := []string{"welcome_series", "feature_announcement", "marketing_tips", "success_story", "limited_offer"}
	names := catalog.Names()
	if len(names) != len(wantNames) {
		t.Fatalf("got %d templates, want %d", len(names), len(wantNames))
	}
	for i, want := range wantNames {
		if names[i] != want {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want)
		}
	}

	for _, tmpl := range catalog.All() {
		if tmpl.Status != StatusApproved {
			t.Errorf("template %s has status %s, want %s", tmpl.Name, tmpl.Status, StatusApproved)
		}
		if tmpl.Category != CategoryMarketing {
			t.Errorf("template %s has category %s", tmpl.Name, tmpl.Category)
		}
		if !strings.Contains(tmpl.Body, "{{1}}") {
			t.Errorf("template %s body has no first placeholder", tmpl.Name)
		}
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	tmpl, ok := catalog.Lookup("welcome_series")
	if !ok {
		t.Fatal("welcome_series should exist")
	}
	if len(tmpl.Variables) != 1 || tmpl.Variables[0] != "dashboard_url" {
		t.Errorf("unexpected variables: %v", tmpl.Variables)
	}
	if _, ok := catalog.Lookup("nope"); ok {
		t.Error("lookup of unknown name should fail")
	}
}

func TestNewCatalogFromJSONRejectsDuplicates(t *testing.T) {
	data := []byte(`[{"name":"a","body":"x"},{"name":"a","body":"y"}]`)
	if _, err := NewCatalogFromJSON(data); err == nil {
		t.Fatal("expected duplicate-name error")
	}
}

func TestNewCatalogFromJSONRejectsBadInput(t *testing.T) {
	if _, err := NewCatalogFromJSON([]byte(`{not json`)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := NewCatalogFromJSON([]byte(`[{"body":"missing name"}]`)); err == nil {
		t.Fatal("expected missing-name error")
	}
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	all := catalog.All()
	all[0].Name = "mutated"
	if fresh, _ := catalog.Lookup("welcome_series"); fresh.Name != "welcome_series" {
		t.Error("catalog entries must be immutable to callers")
	}
}
