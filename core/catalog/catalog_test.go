package catalog

import "testing"

func TestCatalogContainsPatternScannerRules(t *testing.T) {
	cat := Catalog()

	for _, id := range []string{"PS_001", "PS_006", "PS_012"} {
		meta, ok := cat[id]
		if !ok {
			t.Errorf("expected %s in catalog", id)
			continue
		}
		if meta.Source != "pattern-scanner" {
			t.Errorf("expected %s source pattern-scanner, got %s", id, meta.Source)
		}
		if meta.Title == "" {
			t.Errorf("expected %s to have a title", id)
		}
	}
}

func TestCatalogContainsToolPoisoningRules(t *testing.T) {
	cat := Catalog()

	for _, id := range []string{"TP_INJECT_001", "TP_SCHEMA_001", "TP_HOMOGLYPH_001"} {
		meta, ok := cat[id]
		if !ok {
			t.Errorf("expected %s in catalog", id)
			continue
		}
		if meta.Source != "tool-poisoning" {
			t.Errorf("expected %s source tool-poisoning, got %s", id, meta.Source)
		}
	}
}

func TestCatalogEntriesHaveSeverity(t *testing.T) {
	cat := Catalog()
	for id, meta := range cat {
		if meta.Severity == "" {
			t.Errorf("rule %s has no severity", id)
		}
	}
}
