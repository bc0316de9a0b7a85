package main

import (
	"testing"

	"github.com/RafiqAuto/rafiq-mvp/engine/semantic"
	"github.com/RafiqAuto/rafiq-mvp/pkg/fn"
)

func TestTipCorpusWellFormed(t *testing.T) {
	tips := tipCorpus()
	if len(tips) < 15 {
		t.Fatalf("corpus too small: %d", len(tips))
	}

	seen := map[string]bool{}
	for _, tip := range tips {
		if tip.ID == "" || tip.Title == "" || tip.Body == "" || tip.Category == "" {
			t.Fatalf("incomplete tip: %+v", tip)
		}
		if seen[tip.ID] {
			t.Fatalf("duplicate tip id %s", tip.ID)
		}
		seen[tip.ID] = true
	}

	categories := fn.Unique(fn.Map(tips, func(r semantic.TipRecord) string { return r.Category }))
	if len(categories) < 5 {
		t.Fatalf("expected several categories, got %v", categories)
	}
}

func TestTipIDStable(t *testing.T) {
	if tipID("oil-interval-heat") != tipID("oil-interval-heat") {
		t.Fatal("tip IDs must be deterministic")
	}
	if tipID("a") == tipID("b") {
		t.Fatal("distinct slugs must map to distinct IDs")
	}
}
