// internal/feedback/feedback.go
//
// Pure comparison of a guessed entity against the target entity.
// Responsibilities:
//   - Produce an ordered, stable verdict of per-attribute tiles.
//   - Color numeric attributes by per-attribute tolerance bands.
//   - Attach direction hints that always point toward the target value.
//   - Fall back to continent matching for birth country.
//
// Compare has no side effects and returns byte-identical output for the
// same pair on every call, so verdicts can be persisted and replayed.

package feedback

import (
	"strconv"
	"strings"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
)

// Color is the tri-state closeness of one attribute.
type Color string

const (
	Exact Color = "EXACT"
	Near  Color = "NEAR"
	Far   Color = "FAR"
)

// Direction tells the player which way to move a numeric attribute to
// reach the target. It is independent of the color band: a FAR tile still
// carries a useful arrow.
type Direction string

const (
	Equal    Direction = "equal"
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Tile is the comparison result for a single attribute.
type Tile struct {
	Attribute    string    `json:"attribute"`
	DisplayValue string    `json:"value"`
	Color        Color     `json:"color"`
	Direction    Direction `json:"direction,omitempty"`
}

// Verdict is the ordered tile list for one guess. Ordering is fixed
// (debut, club, rating, secondary metric, position, country); callers may
// rely on positional meaning.
type Verdict []Tile

// SecondaryKind selects what the secondary metric column means for this
// deployment.
type SecondaryKind string

const (
	SecondaryAwards    SecondaryKind = "awards"
	SecondaryValuation SecondaryKind = "valuation"
)

// Default tolerances, from the original game rules.
const (
	DefaultDebutTolerance     = 2
	DefaultRatingTolerance    = 20
	DefaultAwardsTolerance    = 1
	DefaultValuationTolerance = 5_000_000
)

// Engine compares entities under a fixed attribute plan. Safe for
// concurrent use; it holds only immutable configuration.
type Engine struct {
	debutTol      int
	ratingTol     int
	secondaryTol  int
	secondaryKind SecondaryKind
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDebutTolerance sets the debut-year NEAR band. Zero is a valid,
// exact-only band; negative values are ignored.
func WithDebutTolerance(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.debutTol = n
		}
	}
}

// WithRatingTolerance sets the rating NEAR band.
func WithRatingTolerance(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.ratingTol = n
		}
	}
}

// WithSecondaryTolerance sets the secondary-metric NEAR band, overriding
// the kind's default.
func WithSecondaryTolerance(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.secondaryTol = n
		}
	}
}

// WithSecondaryKind selects what the secondary metric column means.
func WithSecondaryKind(k SecondaryKind) Option {
	return func(e *Engine) {
		if k == SecondaryAwards || k == SecondaryValuation {
			e.secondaryKind = k
		}
	}
}

// New builds an engine with the default tolerances. The secondary
// tolerance default depends on the configured kind, so it is resolved
// after the options run unless one set it explicitly.
func New(opts ...Option) *Engine {
	e := &Engine{
		debutTol:      DefaultDebutTolerance,
		ratingTol:     DefaultRatingTolerance,
		secondaryTol:  -1,
		secondaryKind: SecondaryAwards,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.secondaryTol < 0 {
		if e.secondaryKind == SecondaryValuation {
			e.secondaryTol = DefaultValuationTolerance
		} else {
			e.secondaryTol = DefaultAwardsTolerance
		}
	}
	return e
}

// Compare builds the verdict for guess against target.
func (e *Engine) Compare(guess, target *catalog.Entity) Verdict {
	clubValue := guess.Club
	if guess.ClubBadge != "" {
		clubValue = strings.TrimSpace(guess.ClubBadge + " " + guess.Club)
	}
	secondaryAttr := string(e.secondaryKind)

	return Verdict{
		numericTile("debut", guess.DebutYear, target.DebutYear, e.debutTol),
		exactTile("club", clubValue, catalog.Normalize(guess.Club) == catalog.Normalize(target.Club)),
		numericTile("rating", guess.Rating, target.Rating, e.ratingTol),
		numericTile(secondaryAttr, guess.SecondaryMetric, target.SecondaryMetric, e.secondaryTol),
		exactTile("position", string(guess.Position), guess.Position == target.Position),
		countryTile(guess.BirthCountry, target.BirthCountry),
	}
}

func exactTile(attr, value string, match bool) Tile {
	color := Far
	if match {
		color = Exact
	}
	return Tile{Attribute: attr, DisplayValue: value, Color: color}
}

func numericTile(attr string, guess, target, tolerance int) Tile {
	t := Tile{Attribute: attr, DisplayValue: strconv.Itoa(guess)}
	diff := guess - target
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		t.Color = Exact
	case diff <= tolerance:
		t.Color = Near
	default:
		t.Color = Far
	}
	switch {
	case guess == target:
		t.Direction = Equal
	case target > guess:
		t.Direction = Increase
	default:
		t.Direction = Decrease
	}
	return t
}

func countryTile(guess, target string) Tile {
	t := Tile{Attribute: "country", DisplayValue: guess}
	switch {
	case catalog.Normalize(guess) == catalog.Normalize(target):
		t.Color = Exact
	case sameContinent(guess, target):
		t.Color = Near
	default:
		t.Color = Far
	}
	return t
}
