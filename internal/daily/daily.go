// internal/daily/daily.go
//
// Deterministic daily target selection from a published rotation list.
// The same date always yields the same entity for the lifetime of a fixed
// rotation; the mapping is a pure function of the date's ordinal day
// number modulo the rotation length.

package daily

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
)

// unixEpochOrdinal is the proleptic-Gregorian ordinal of 1970-01-01
// (day 1 being 0001-01-01).
const unixEpochOrdinal = 719163

// Rotation is the ordered list of entity ids the daily puzzle cycles
// through.
type Rotation struct {
	order []string
}

// rotationFile matches the puzzles JSON shape.
type rotationFile struct {
	Order []string `json:"order"`
}

// Load reads the rotation file and validates every id against the catalog.
// An empty rotation or an unknown id is a startup failure, not a per-call
// recoverable condition.
func Load(path string, cat *catalog.Catalog) (*Rotation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rotation: %w", err)
	}
	return Parse(raw, cat)
}

// Parse builds a rotation from raw puzzles JSON.
func Parse(raw []byte, cat *catalog.Catalog) (*Rotation, error) {
	var rf rotationFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parse rotation: %w", err)
	}
	return New(rf.Order, cat)
}

// New builds a validated rotation from an explicit order list.
func New(order []string, cat *catalog.Catalog) (*Rotation, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("rotation order is empty")
	}
	for _, id := range order {
		if cat.Get(id) == nil {
			return nil, fmt.Errorf("rotation references unknown entity id %q", id)
		}
	}
	return &Rotation{order: append([]string(nil), order...)}, nil
}

// PlayerOfDay maps a calendar date to the rotation entry for that day.
func (r *Rotation) PlayerOfDay(date time.Time) string {
	idx := OrdinalDay(date) % len(r.order)
	return r.order[idx]
}

// Len reports the rotation length.
func (r *Rotation) Len() int { return len(r.order) }

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// OrdinalDay returns the proleptic-Gregorian ordinal day number of the
// date in UTC, with 0001-01-01 as day 1.
func OrdinalDay(t time.Time) int {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix()/86400) + unixEpochOrdinal
}
