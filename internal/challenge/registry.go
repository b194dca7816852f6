// internal/challenge/registry.go
//
// Shareable challenge codes mapping to a creator-chosen target entity.
//
// Codes are fixed-length tokens from an uppercase+digit alphabet. Creation
// retries on a uniqueness conflict with a freshly generated code, each
// attempt its own atomic insert; no lock is held across the retry loop.
// Challenges are immutable and never expire.

package challenge

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	defaultCodeLength = 6
	defaultMaxRetries = 5
)

// ErrCodeSpaceExhausted is a liveness signal: every generated code within
// the retry budget collided. Not expected in normal operation given the
// alphabet size; indicates under-provisioned code length.
var ErrCodeSpaceExhausted = errors.New("challenge code space exhausted")

// ErrUnknownCode is returned by Resolve for codes never registered.
var ErrUnknownCode = errors.New("unknown challenge code")

// Generator produces one candidate code of the given length. Injectable so
// tests can force collisions deterministically.
type Generator func(length int) (string, error)

// CryptoGenerator draws codes from crypto/rand.
func CryptoGenerator(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Challenge mirrors one challenges row.
type Challenge struct {
	Code      string
	TargetID  string
	CreatorID string
	CreatedAt time.Time
}

// Registry generates and resolves challenge codes.
type Registry struct {
	db          *sql.DB
	gen         Generator
	codeLength  int
	maxRetries  int
	onCollision func()
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithGenerator replaces the code source.
func WithGenerator(g Generator) Option {
	return func(r *Registry) {
		if g != nil {
			r.gen = g
		}
	}
}

// WithCodeLength sets the code length.
func WithCodeLength(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.codeLength = n
		}
	}
}

// WithMaxRetries bounds the collision retry loop.
func WithMaxRetries(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxRetries = n
		}
	}
}

// WithCollisionHook installs a callback invoked once per code collision,
// e.g. to feed an operational counter.
func WithCollisionHook(fn func()) Option {
	return func(r *Registry) {
		r.onCollision = fn
	}
}

// NewRegistry builds a registry with crypto/rand codes by default.
func NewRegistry(db *sql.DB, opts ...Option) *Registry {
	r := &Registry{
		db:         db,
		gen:        CryptoGenerator,
		codeLength: defaultCodeLength,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new challenge and returns its code.
//
// INSERT OR IGNORE keeps each attempt a single atomic insert-check: zero
// rows affected means the code already exists, which is expected, not
// exceptional, and triggers a retry with a fresh code.
func (r *Registry) Create(ctx context.Context, creatorID, targetID string) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	for i := 0; i < r.maxRetries; i++ {
		code, err := r.gen(r.codeLength)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO challenges(code, target_id, creator_id, created_at)
			 VALUES (?,?,?,?)`, code, targetID, creatorID, now)
		if err != nil {
			return "", err
		}
		if n, err := res.RowsAffected(); err != nil {
			return "", err
		} else if n == 1 {
			return code, nil
		}
		if r.onCollision != nil {
			r.onCollision()
		}
	}
	return "", ErrCodeSpaceExhausted
}

// Resolve looks up the target entity for a code. Input is case-normalized
// to the uppercase alphabet.
func (r *Registry) Resolve(ctx context.Context, code string) (string, error) {
	var targetID string
	err := r.db.QueryRowContext(ctx,
		`SELECT target_id FROM challenges WHERE code=?`,
		strings.ToUpper(strings.TrimSpace(code))).Scan(&targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnknownCode
	}
	if err != nil {
		return "", err
	}
	return targetID, nil
}

// Get loads a full challenge row, or nil if absent.
func (r *Registry) Get(ctx context.Context, code string) (*Challenge, error) {
	var c Challenge
	var created string
	err := r.db.QueryRowContext(ctx,
		`SELECT code, target_id, creator_id, created_at FROM challenges WHERE code=?`,
		strings.ToUpper(strings.TrimSpace(code))).
		Scan(&c.Code, &c.TargetID, &c.CreatorID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &c, nil
}
