package catalog

import "testing"

// suggestCatalog builds a catalog where substring matches land at known
// blob positions.
func suggestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := New([]*Entity{
		testEntity("ronaldinho", "Ronaldinho", func(e *Entity) { e.Rating = 89 }),
		testEntity("ronaldo-r9", "Ronaldo", func(e *Entity) {
			e.Rating = 94
			e.Aliases = []string{"r9", "il fenomeno"}
		}),
		testEntity("cristiano", "Cristiano Ronaldo", func(e *Entity) {
			e.Rating = 93
			e.Aliases = []string{"cr7"}
		}),
		testEntity("rooney", "Wayne Rooney", func(e *Entity) { e.Rating = 88 }),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cat
}

func TestSuggestShortQueryGuard(t *testing.T) {
	cat := suggestCatalog(t)
	if got := cat.Suggest("ro", 5); got != nil {
		t.Errorf("two-char query should return nothing, got %d hits", len(got))
	}
	if got := cat.Suggest("  R  o ", 5); got != nil {
		// "r o" normalizes to 3 runes including the space; the guard is
		// on normalized length, and no blob contains "r o".
		t.Errorf("expected no hits, got %d", len(got))
	}
}

func TestSuggestRanking(t *testing.T) {
	cat := suggestCatalog(t)
	got := cat.Suggest("ronaldo", 5)
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	// "ronaldo" occurs at blob position 0 for Ronaldo, position 10 for
	// Cristiano Ronaldo ("cristiano |ronaldo|cr7"). Earlier position wins.
	want := []string{"ronaldo-r9", "cristiano"}
	if len(ids) != len(want) {
		t.Fatalf("Suggest = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Suggest = %v, want %v", ids, want)
		}
	}
}

func TestSuggestRatingTieBreak(t *testing.T) {
	cat, err := New([]*Entity{
		testEntity("low", "Ron Lowe", func(e *Entity) { e.Rating = 70 }),
		testEntity("high", "Ron Haig", func(e *Entity) { e.Rating = 90 }),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := cat.Suggest("ron", 5)
	if len(got) != 2 || got[0].ID != "high" || got[1].ID != "low" {
		ids := make([]string, len(got))
		for i, e := range got {
			ids[i] = e.ID
		}
		t.Errorf("same-position matches should order by rating desc, got %v", ids)
	}
}

func TestSuggestLimit(t *testing.T) {
	cat := suggestCatalog(t)
	if got := cat.Suggest("ronaldo", 1); len(got) != 1 {
		t.Errorf("limit 1 should cap results, got %d", len(got))
	}
	if got := cat.Suggest("ronaldo", 0); got != nil {
		t.Errorf("limit 0 should return nothing, got %d", len(got))
	}
}

func TestSuggestNoMatch(t *testing.T) {
	cat := suggestCatalog(t)
	if got := cat.Suggest("maradona", 5); got != nil {
		t.Errorf("expected no hits, got %d", len(got))
	}
}
