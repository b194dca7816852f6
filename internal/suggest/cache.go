// internal/suggest/cache.go
//
// Single-slot-per-player disambiguation cache. A choice list shown to a
// player is parked here under an opaque token; a later selection event is
// matched back against that token. Creating a new entry replaces any
// prior one, and a successful redeem consumes the entry.

package suggest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Purpose records what the parked candidate list was for, so the
// selection event can be routed back to the right operation.
type Purpose string

const (
	PurposeGuess           Purpose = "GUESS"
	PurposeChallengeTarget Purpose = "CHALLENGE_TARGET"
)

// ErrStaleToken rejects a selection whose token no longer matches the
// stored entry. Covers both expiry-by-replacement and replay of an old
// rendered choice list.
var ErrStaleToken = errors.New("stale suggestion token")

// ErrIndexOutOfRange rejects a selection index outside the candidate
// list. The entry is kept so the player can be re-prompted.
var ErrIndexOutOfRange = errors.New("suggestion index out of range")

// Cache persists the per-player suggestion slot.
type Cache struct {
	db *sql.DB
}

// NewCache wires the cache to its database.
func NewCache(db *sql.DB) *Cache { return &Cache{db: db} }

// Offer replaces the player's entry with a fresh candidate list and
// returns the new opaque token. Last write wins; stale tokens are
// rejected at redeem time, not queued.
func (c *Cache) Offer(ctx context.Context, playerID string, candidateIDs []string, purpose Purpose) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(candidateIDs)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO suggestions(player_id, token, purpose, candidate_ids, created_at)
		 VALUES (?,?,?,?,?)`, playerID, token, purpose, payload, now)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Redeem resolves a selection (1-based index) against the stored entry
// and consumes it. The read-check-delete runs in one transaction so two
// concurrent redeems cannot both succeed.
func (c *Cache) Redeem(ctx context.Context, playerID, token string, index int) (string, Purpose, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	var purpose Purpose
	var payload string
	err = tx.QueryRowContext(ctx,
		`SELECT token, purpose, candidate_ids FROM suggestions WHERE player_id=?`,
		playerID).Scan(&stored, &purpose, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrStaleToken
	}
	if err != nil {
		return "", "", err
	}
	if stored != token {
		return "", "", ErrStaleToken
	}

	var candidates []string
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return "", "", err
	}
	if index < 1 || index > len(candidates) {
		return "", "", ErrIndexOutOfRange
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM suggestions WHERE player_id=?`, playerID); err != nil {
		return "", "", err
	}
	if err := tx.Commit(); err != nil {
		return "", "", err
	}
	return candidates[index-1], purpose, nil
}
