package daily

import (
	"testing"
	"time"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
)

func testCatalog(t *testing.T, ids ...string) *catalog.Catalog {
	t.Helper()
	entities := make([]*catalog.Entity, len(ids))
	for i, id := range ids {
		entities[i] = &catalog.Entity{
			ID:           id,
			DisplayName:  "Player " + id,
			DebutYear:    2000,
			Club:         "Club " + id,
			Rating:       80,
			Position:     catalog.Forward,
			BirthCountry: "Brazil",
		}
	}
	cat, err := catalog.New(entities)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestOrdinalDay(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 719163},
		{time.Date(1970, 1, 2, 12, 30, 0, 0, time.UTC), 719164},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 738886},
	}
	for _, c := range cases {
		if got := OrdinalDay(c.date); got != c.want {
			t.Errorf("OrdinalDay(%s) = %d, want %d", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestPlayerOfDayDeterministic(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c")
	rot, err := New([]string{"a", "b", "c"}, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	date := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	first := rot.PlayerOfDay(date)
	if second := rot.PlayerOfDay(date); second != first {
		t.Errorf("same date gave different entities: %s then %s", first, second)
	}
	// Time of day must not matter.
	if late := rot.PlayerOfDay(date.Add(14 * time.Hour)); late != first {
		t.Errorf("time of day changed selection: %s vs %s", first, late)
	}
}

func TestPlayerOfDayCyclesThroughRotation(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c")
	rot, err := New([]string{"a", "b", "c"}, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		seen[rot.PlayerOfDay(start.AddDate(0, 0, i))] = true
	}
	if len(seen) != 3 {
		t.Errorf("three consecutive days should cover a 3-entry rotation, saw %d", len(seen))
	}
	// Day N and day N+len map to the same entry.
	if rot.PlayerOfDay(start) != rot.PlayerOfDay(start.AddDate(0, 0, 3)) {
		t.Error("rotation should repeat with period len(order)")
	}
}

func TestRotationValidation(t *testing.T) {
	cat := testCatalog(t, "a")
	if _, err := New(nil, cat); err == nil {
		t.Error("empty rotation should fail")
	}
	if _, err := New([]string{"a", "ghost"}, cat); err == nil {
		t.Error("unknown id in rotation should fail")
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2024, 7, 9, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))
	if got := DateKey(d); got != "2024-07-09" {
		t.Errorf("DateKey = %s, want 2024-07-09", got)
	}
}
