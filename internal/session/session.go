// internal/session/session.go
//
// Per-player, per-session-key state machine over the persisted store.
//
// States: ACTIVE -> WON | EXHAUSTED. WON and EXHAUSTED are terminal; any
// further guess against a terminal session is rejected, never silently
// processed. Every transition runs inside a single SQLite transaction so
// no operation partially applies its effects.

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/feedback"
)

// Status is the lifecycle state of one session.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusWon       Status = "WON"
	StatusExhausted Status = "EXHAUSTED"
)

// ErrNoActiveSession is returned when a guess arrives and the player has
// no session in focus.
var ErrNoActiveSession = errors.New("no active session")

// FinishedError rejects guesses against a terminal session. It carries the
// target's display name so the caller can reveal it.
type FinishedError struct {
	Status     Status
	TargetName string
}

func (e *FinishedError) Error() string {
	return fmt.Sprintf("session finished (%s)", e.Status)
}

// ExhaustedError signals that the attempt ceiling was reached without a
// win. Like FinishedError it reveals the target.
type ExhaustedError struct {
	TargetName string
}

func (e *ExhaustedError) Error() string { return "attempts exhausted" }

// Session mirrors one sessions row.
type Session struct {
	PlayerID  string
	Key       string
	TargetID  string
	Attempts  int
	Status    Status
	CreatedAt time.Time
}

// Attempt is one append-only attempt record.
type Attempt struct {
	Ordinal int              `json:"ordinal"`
	Guess   string           `json:"guess"`
	Verdict feedback.Verdict `json:"verdict"`
}

// Outcome is the result of a recorded guess.
type Outcome struct {
	Ordinal      int
	Verdict      feedback.Verdict
	Won          bool
	Exhausted    bool
	AttemptsLeft int
	// TargetName is set when the outcome is terminal.
	TargetName string
}

// Terminal reports whether the session ended with this guess.
func (o *Outcome) Terminal() bool { return o.Won || o.Exhausted }

// Store runs the session state machine against SQLite.
type Store struct {
	db          *sql.DB
	cat         *catalog.Catalog
	engine      *feedback.Engine
	maxAttempts int
}

// NewStore wires the store to its database and comparison engine.
func NewStore(db *sql.DB, cat *catalog.Catalog, engine *feedback.Engine, maxAttempts int) *Store {
	return &Store{db: db, cat: cat, engine: engine, maxAttempts: maxAttempts}
}

// MaxAttempts reports the configured attempt ceiling.
func (s *Store) MaxAttempts() int { return s.maxAttempts }

// CreateOrReset idempotently (re)initializes the session for (player,
// key): attempts back to zero, status ACTIVE, prior attempt history
// cleared, and the key set as the player's active pointer. Atomic: a
// concurrent read never observes attempts from the old run mixed with
// status from the new one.
func (s *Store) CreateOrReset(ctx context.Context, playerID, key, targetID string) error {
	if s.cat.Get(targetID) == nil {
		return fmt.Errorf("unknown target entity %q", targetID)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attempts WHERE player_id=? AND session_key=?`, playerID, key); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions(player_id, session_key, target_id, attempts, status, created_at)
		 VALUES (?,?,?,0,?,?)`, playerID, key, targetID, StatusActive, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO active_pointer(player_id, session_key) VALUES (?,?)`,
		playerID, key); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordGuess scores a resolved guess against the player's active session.
//
// The ordinal increment and the attempt append are one transaction: two
// attempts can never share an ordinal, and a crash cannot leave a gap.
func (s *Store) RecordGuess(ctx context.Context, playerID string, guess *catalog.Entity) (*Outcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var key string
	err = tx.QueryRowContext(ctx,
		`SELECT session_key FROM active_pointer WHERE player_id=?`, playerID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	var targetID string
	var attempts int
	var status Status
	err = tx.QueryRowContext(ctx,
		`SELECT target_id, attempts, status FROM sessions WHERE player_id=? AND session_key=?`,
		playerID, key).Scan(&targetID, &attempts, &status)
	if errors.Is(err, sql.ErrNoRows) {
		// Dangling pointer: the session row is gone.
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	target := s.cat.Get(targetID)
	if target == nil {
		return nil, fmt.Errorf("session %s/%s references unknown target %q", playerID, key, targetID)
	}
	if status != StatusActive {
		return nil, &FinishedError{Status: status, TargetName: target.DisplayName}
	}
	if attempts >= s.maxAttempts {
		// Ceiling already reached without a terminal status. Close the
		// session now and reject the guess.
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET status=? WHERE player_id=? AND session_key=?`,
			StatusExhausted, playerID, key); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, &ExhaustedError{TargetName: target.DisplayName}
	}

	verdict := s.engine.Compare(guess, target)
	payload, err := json.Marshal(verdict)
	if err != nil {
		return nil, err
	}

	n := attempts + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attempts(player_id, session_key, n, guess, verdict) VALUES (?,?,?,?,?)`,
		playerID, key, n, guess.DisplayName, string(payload)); err != nil {
		return nil, err
	}

	out := &Outcome{Ordinal: n, Verdict: verdict, AttemptsLeft: s.maxAttempts - n}
	next := StatusActive
	switch {
	case guess.ID == target.ID:
		next = StatusWon
		out.Won = true
	case n >= s.maxAttempts:
		next = StatusExhausted
		out.Exhausted = true
	}
	if out.Terminal() {
		out.TargetName = target.DisplayName
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET attempts=?, status=? WHERE player_id=? AND session_key=?`,
		n, next, playerID, key); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one session row, or nil if absent.
func (s *Store) Get(ctx context.Context, playerID, key string) (*Session, error) {
	var sess Session
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, session_key, target_id, attempts, status, created_at
		 FROM sessions WHERE player_id=? AND session_key=?`, playerID, key).
		Scan(&sess.PlayerID, &sess.Key, &sess.TargetID, &sess.Attempts, &sess.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &sess, nil
}

// ActiveKey returns the session key currently in focus for the player, or
// "" if none.
func (s *Store) ActiveKey(ctx context.Context, playerID string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx,
		`SELECT session_key FROM active_pointer WHERE player_id=?`, playerID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return key, err
}

// History returns the session's attempts in ordinal order. Read-only.
func (s *Store) History(ctx context.Context, playerID, key string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n, guess, verdict FROM attempts
		 WHERE player_id=? AND session_key=? ORDER BY n`, playerID, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var payload string
		if err := rows.Scan(&a.Ordinal, &a.Guess, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &a.Verdict); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
