// internal/catalog/entity.go
//
// Core entity record for the footballer catalog.
// Entities are immutable after load and shared read-only across sessions.

package catalog

import (
	"fmt"
)

// PositionGroup classifies a player by broad field role.
type PositionGroup string

const (
	Goalkeeper PositionGroup = "GOALKEEPER"
	Defender   PositionGroup = "DEFENDER"
	Midfielder PositionGroup = "MIDFIELDER"
	Forward    PositionGroup = "FORWARD"
)

// ParsePositionGroup accepts both the long enum names and the short
// tokens used in the source data (GK/DEF/MID/FWD).
func ParsePositionGroup(s string) (PositionGroup, error) {
	switch Normalize(s) {
	case "gk", "goalkeeper":
		return Goalkeeper, nil
	case "def", "defender":
		return Defender, nil
	case "mid", "midfielder":
		return Midfielder, nil
	case "fwd", "forward":
		return Forward, nil
	}
	return "", fmt.Errorf("unknown position group %q", s)
}

// Entity is one guessable footballer. All fields are set at load time and
// never mutated afterwards.
type Entity struct {
	ID              string
	DisplayName     string
	Aliases         []string // normalized
	DebutYear       int
	Club            string
	ClubBadge       string // optional short badge token
	Rating          int    // 0-99
	SecondaryMetric int    // award count or market valuation, per deployment
	Position        PositionGroup
	BirthCountry    string
}

// validate rejects malformed records at load time so comparisons never
// have to defend against bad data.
func (e *Entity) validate() error {
	if e.ID == "" {
		return fmt.Errorf("entity with empty id")
	}
	if e.DisplayName == "" {
		return fmt.Errorf("entity %s: empty name", e.ID)
	}
	if e.Club == "" {
		return fmt.Errorf("entity %s: empty club", e.ID)
	}
	if e.BirthCountry == "" {
		return fmt.Errorf("entity %s: empty birth country", e.ID)
	}
	if e.Rating < 0 || e.Rating > 99 {
		return fmt.Errorf("entity %s: rating %d out of range 0-99", e.ID, e.Rating)
	}
	if e.DebutYear < 1900 || e.DebutYear > 2100 {
		return fmt.Errorf("entity %s: debut year %d out of range", e.ID, e.DebutYear)
	}
	if e.SecondaryMetric < 0 {
		return fmt.Errorf("entity %s: negative secondary metric %d", e.ID, e.SecondaryMetric)
	}
	switch e.Position {
	case Goalkeeper, Defender, Midfielder, Forward:
	default:
		return fmt.Errorf("entity %s: unknown position group %q", e.ID, e.Position)
	}
	return nil
}
