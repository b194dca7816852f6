// internal/catalog/catalog.go
//
// Load-once registry of entities and their canonical/alias name index.
//
// Responsibilities:
//   - Parse the players JSON file into validated Entity records.
//   - Build the alias index (id, name, and every alias map to the entity).
//   - Fail loudly on duplicate keys instead of overwriting.
//
// The catalog is constructed once at startup and passed as an explicit
// read-only dependency; nothing in this package mutates it afterwards.

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// entityRecord matches the players.json shape.
type entityRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Aliases      []string `json:"aliases"`
	DebutYear    int      `json:"debut_year"`
	IconicClub   string   `json:"iconic_club"`
	FifaRating   int      `json:"fifa_rating"`
	TopAwards    *int     `json:"top_awards"`
	MarketValue  *int     `json:"market_value"`
	Position     string   `json:"position_group"`
	BirthCountry string   `json:"birth_country"`
	ClubEmoji    string   `json:"club_emoji"`
}

// Catalog holds all entities in file order plus the lookup indexes.
type Catalog struct {
	entities []*Entity
	byID     map[string]*Entity
	aliases  map[string]string // normalized key -> entity id
	blobs    []string          // per-entity searchable text, same order as entities
}

// Load reads and indexes the players file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse builds a catalog from raw players JSON. Load and the embedded
// default data both funnel through here.
func Parse(raw []byte) (*Catalog, error) {
	var records []entityRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	entities := make([]*Entity, 0, len(records))
	for _, rec := range records {
		pos, err := ParsePositionGroup(rec.Position)
		if err != nil {
			return nil, fmt.Errorf("catalog entity %s: %w", rec.ID, err)
		}
		secondary := 0
		switch {
		case rec.TopAwards != nil:
			secondary = *rec.TopAwards
		case rec.MarketValue != nil:
			secondary = *rec.MarketValue
		}
		aliases := make([]string, 0, len(rec.Aliases))
		for _, a := range rec.Aliases {
			aliases = append(aliases, Normalize(a))
		}
		entities = append(entities, &Entity{
			ID:              rec.ID,
			DisplayName:     rec.Name,
			Aliases:         aliases,
			DebutYear:       rec.DebutYear,
			Club:            rec.IconicClub,
			ClubBadge:       rec.ClubEmoji,
			Rating:          rec.FifaRating,
			SecondaryMetric: secondary,
			Position:        pos,
			BirthCountry:    rec.BirthCountry,
		})
	}
	return New(entities)
}

// New builds a catalog from already-parsed entities. Exported separately so
// tests can construct small catalogs without fixture files.
func New(entities []*Entity) (*Catalog, error) {
	c := &Catalog{
		entities: entities,
		byID:     make(map[string]*Entity, len(entities)),
		aliases:  make(map[string]string, len(entities)*3),
		blobs:    make([]string, 0, len(entities)),
	}
	for _, e := range entities {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", e.ID)
		}
		c.byID[e.ID] = e

		if err := c.addAlias(Normalize(e.ID), e.ID); err != nil {
			return nil, err
		}
		if err := c.addAlias(Normalize(e.DisplayName), e.ID); err != nil {
			return nil, err
		}
		for _, a := range e.Aliases {
			if err := c.addAlias(a, e.ID); err != nil {
				return nil, err
			}
		}

		// Searchable blob: name plus aliases, separator-joined so a query
		// cannot straddle two names.
		parts := append([]string{Normalize(e.DisplayName)}, e.Aliases...)
		c.blobs = append(c.blobs, strings.Join(parts, "|"))
	}
	if len(c.entities) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// addAlias inserts one index key, failing on a collision with a different
// entity rather than silently overwriting.
func (c *Catalog) addAlias(key, id string) error {
	if key == "" {
		return fmt.Errorf("entity %s: empty alias", id)
	}
	if prev, ok := c.aliases[key]; ok && prev != id {
		return fmt.Errorf("alias %q maps to both %s and %s", key, prev, id)
	}
	c.aliases[key] = id
	return nil
}

// Get returns the entity for an id, or nil.
func (c *Catalog) Get(id string) *Entity { return c.byID[id] }

// Len reports the number of entities loaded.
func (c *Catalog) Len() int { return len(c.entities) }

// Entities returns all entities in catalog order. Callers must not mutate.
func (c *Catalog) Entities() []*Entity { return c.entities }
