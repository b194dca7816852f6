// internal/catalog/resolver.go
//
// Free-text lookup against the alias index.
//
// ResolveExact is a direct normalized lookup with no partial credit.
// Suggest is intentionally substring/positional rather than edit-distance:
// earlier and more prominent matches surface first.

package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minQueryLen guards Suggest against ruinous fan-out from one- and
// two-character queries on large catalogs.
const minQueryLen = 3

// ResolveExact normalizes text and looks it up in the alias index.
// Returns the matched entity or nil.
func (c *Catalog) ResolveExact(text string) *Entity {
	if id, ok := c.aliases[Normalize(text)]; ok {
		return c.byID[id]
	}
	return nil
}

// Suggest scans each entity's searchable blob for the normalized query as
// a substring and returns up to limit entities, best first.
//
// Ranking key: ascending position of the first match in the blob, then
// descending rating, ties broken by catalog order. Queries shorter than
// three normalized characters return nothing; this is a guard, not an
// error.
func (c *Catalog) Suggest(text string, limit int) []*Entity {
	q := Normalize(text)
	if utf8.RuneCountInString(q) < minQueryLen || limit <= 0 {
		return nil
	}

	type hit struct {
		pos   int
		order int
	}
	var hits []hit
	for i, blob := range c.blobs {
		if p := strings.Index(blob, q); p >= 0 {
			hits = append(hits, hit{pos: p, order: i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].pos != hits[b].pos {
			return hits[a].pos < hits[b].pos
		}
		ra, rb := c.entities[hits[a].order].Rating, c.entities[hits[b].order].Rating
		if ra != rb {
			return ra > rb
		}
		return hits[a].order < hits[b].order
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*Entity, len(hits))
	for i, h := range hits {
		out[i] = c.entities[h.order]
	}
	return out
}
