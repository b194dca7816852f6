// internal/engine/engine.go
//
// Orchestration seam between the transport and the game components.
//
// An inbound guess goes resolver -> session store. A unique match is
// scored directly; an ambiguous one is parked in the suggestion cache and
// surfaced as a choice list; a later selection event re-enters the same
// scoring path. Mode switches (daily/random/challenge) create or reset
// the session and move the player's active pointer. The daily rotation
// and the challenge registry are only consulted at session creation,
// never during scoring.

package engine

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/challenge"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/daily"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/metrics"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/session"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/suggest"
)

const defaultSuggestionLimit = 5

// ErrUnresolvedEntity is returned when free text matches nothing, not
// even as a substring.
var ErrUnresolvedEntity = errors.New("no matching player")

// Disambiguation is a parked choice list for the player to pick from.
type Disambiguation struct {
	Token string
	Names []string // display names, shown 1-based
}

// GuessResult is either a scored outcome or a disambiguation request;
// exactly one field is set.
type GuessResult struct {
	Outcome *session.Outcome
	Choices *Disambiguation
}

// ChallengeResult is either a registered code or a disambiguation request
// for the intended target; exactly one field is set.
type ChallengeResult struct {
	Code    string
	Choices *Disambiguation
}

// SelectResult is the effect of redeeming a suggestion: a scored guess or
// a created challenge, depending on what the choice list was for.
type SelectResult struct {
	Outcome *session.Outcome
	Code    string
}

// Deps bundles the engine's collaborators.
type Deps struct {
	Catalog     *catalog.Catalog
	Rotation    *daily.Rotation
	Sessions    *session.Store
	Challenges  *challenge.Registry
	Suggestions *suggest.Cache
	Metrics     *metrics.Metrics

	// SuggestionLimit caps candidate lists; zero means the default.
	SuggestionLimit int
	// Now is injectable for deterministic daily tests; nil means
	// time.Now.
	Now func() time.Time
	// NewRoundToken mints the unique token for a random-mode round; nil
	// means uuid.
	NewRoundToken func() string
	// RandomIndex draws a uniform index in [0, n); nil means crypto/rand.
	RandomIndex func(n int) (int, error)
}

// Engine routes inbound player events to the game components.
type Engine struct {
	cat           *catalog.Catalog
	rotation      *daily.Rotation
	sessions      *session.Store
	challenges    *challenge.Registry
	suggestions   *suggest.Cache
	metrics       *metrics.Metrics
	suggestLimit  int
	now           func() time.Time
	newRoundToken func() string
	randomIndex   func(n int) (int, error)
}

// New wires an engine from its dependencies.
func New(deps Deps) *Engine {
	e := &Engine{
		cat:           deps.Catalog,
		rotation:      deps.Rotation,
		sessions:      deps.Sessions,
		challenges:    deps.Challenges,
		suggestions:   deps.Suggestions,
		metrics:       deps.Metrics,
		suggestLimit:  deps.SuggestionLimit,
		now:           deps.Now,
		newRoundToken: deps.NewRoundToken,
		randomIndex:   deps.RandomIndex,
	}
	if e.suggestLimit <= 0 {
		e.suggestLimit = defaultSuggestionLimit
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newRoundToken == nil {
		e.newRoundToken = uuid.NewString
	}
	if e.randomIndex == nil {
		e.randomIndex = cryptoRandomIndex
	}
	return e
}

func cryptoRandomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// MaxAttempts reports the per-session attempt ceiling.
func (e *Engine) MaxAttempts() int { return e.sessions.MaxAttempts() }

// Guess resolves free text and scores it against the active session.
func (e *Engine) Guess(ctx context.Context, playerID, text string) (*GuessResult, error) {
	ent, choices, err := e.resolve(ctx, playerID, text, suggest.PurposeGuess)
	if err != nil {
		return nil, err
	}
	if choices != nil {
		return &GuessResult{Choices: choices}, nil
	}
	out, err := e.record(ctx, playerID, ent)
	if err != nil {
		return nil, err
	}
	return &GuessResult{Outcome: out}, nil
}

// Select redeems a previously offered choice list entry and routes it by
// purpose: guesses are scored, challenge targets become codes.
func (e *Engine) Select(ctx context.Context, playerID, token string, index int) (*SelectResult, error) {
	id, purpose, err := e.suggestions.Redeem(ctx, playerID, token, index)
	if err != nil {
		return nil, err
	}
	ent := e.cat.Get(id)
	if ent == nil {
		return nil, ErrUnresolvedEntity
	}
	switch purpose {
	case suggest.PurposeChallengeTarget:
		code, err := e.createChallenge(ctx, playerID, ent)
		if err != nil {
			return nil, err
		}
		return &SelectResult{Code: code}, nil
	default:
		out, err := e.record(ctx, playerID, ent)
		if err != nil {
			return nil, err
		}
		return &SelectResult{Outcome: out}, nil
	}
}

// StartDaily creates or resets today's daily session and focuses it.
func (e *Engine) StartDaily(ctx context.Context, playerID string) (string, error) {
	date := daily.DateKey(e.now())
	key := session.DailyKey(date)
	targetID := e.rotation.PlayerOfDay(e.now())
	if err := e.sessions.CreateOrReset(ctx, playerID, key, targetID); err != nil {
		return "", err
	}
	e.metrics.SessionsStarted.WithLabelValues(session.ModeDaily).Inc()
	return key, nil
}

// StartRandom starts an unlimited-mode round against a random target.
func (e *Engine) StartRandom(ctx context.Context, playerID string) (string, error) {
	targetID, err := e.randomTarget()
	if err != nil {
		return "", err
	}
	key := session.RandomKey(e.newRoundToken())
	if err := e.sessions.CreateOrReset(ctx, playerID, key, targetID); err != nil {
		return "", err
	}
	e.metrics.SessionsStarted.WithLabelValues(session.ModeRandom).Inc()
	return key, nil
}

// StartChallenge joins a shared challenge code. Each joiner gets their
// own session, independent of other players on the same code.
func (e *Engine) StartChallenge(ctx context.Context, playerID, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	targetID, err := e.challenges.Resolve(ctx, code)
	if err != nil {
		return "", err
	}
	key := session.ChallengeKey(code)
	if err := e.sessions.CreateOrReset(ctx, playerID, key, targetID); err != nil {
		return "", err
	}
	e.metrics.SessionsStarted.WithLabelValues(session.ModeChallenge).Inc()
	return key, nil
}

// CreateChallenge resolves free text to a target entity and registers a
// shareable code for it.
func (e *Engine) CreateChallenge(ctx context.Context, playerID, text string) (*ChallengeResult, error) {
	ent, choices, err := e.resolve(ctx, playerID, text, suggest.PurposeChallengeTarget)
	if err != nil {
		return nil, err
	}
	if choices != nil {
		return &ChallengeResult{Choices: choices}, nil
	}
	code, err := e.createChallenge(ctx, playerID, ent)
	if err != nil {
		return nil, err
	}
	return &ChallengeResult{Code: code}, nil
}

// Status returns the active session and its attempt history for display.
func (e *Engine) Status(ctx context.Context, playerID string) (*session.Session, []session.Attempt, error) {
	key, err := e.sessions.ActiveKey(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	if key == "" {
		return nil, nil, session.ErrNoActiveSession
	}
	sess, err := e.sessions.Get(ctx, playerID, key)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, session.ErrNoActiveSession
	}
	history, err := e.sessions.History(ctx, playerID, key)
	if err != nil {
		return nil, nil, err
	}
	return sess, history, nil
}

// resolve maps free text to a unique entity or parks a choice list. A
// single suggestion hit counts as unique; two or more go to the cache.
func (e *Engine) resolve(ctx context.Context, playerID, text string, purpose suggest.Purpose) (*catalog.Entity, *Disambiguation, error) {
	if ent := e.cat.ResolveExact(text); ent != nil {
		return ent, nil, nil
	}
	cands := e.cat.Suggest(text, e.suggestLimit)
	switch len(cands) {
	case 0:
		return nil, nil, ErrUnresolvedEntity
	case 1:
		return cands[0], nil, nil
	}

	ids := make([]string, len(cands))
	names := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
		names[i] = c.DisplayName
	}
	token, err := e.suggestions.Offer(ctx, playerID, ids, purpose)
	if err != nil {
		return nil, nil, err
	}
	e.metrics.Disambiguations.Inc()
	return nil, &Disambiguation{Token: token, Names: names}, nil
}

func (e *Engine) record(ctx context.Context, playerID string, ent *catalog.Entity) (*session.Outcome, error) {
	out, err := e.sessions.RecordGuess(ctx, playerID, ent)
	if err != nil {
		return nil, err
	}
	e.metrics.GuessesRecorded.Inc()
	if out.Won {
		e.metrics.Wins.Inc()
	}
	if out.Exhausted {
		e.metrics.Exhaustions.Inc()
	}
	return out, nil
}

func (e *Engine) createChallenge(ctx context.Context, playerID string, ent *catalog.Entity) (string, error) {
	code, err := e.challenges.Create(ctx, playerID, ent.ID)
	if err != nil {
		return "", err
	}
	e.metrics.ChallengesCreated.Inc()
	return code, nil
}

// randomTarget picks a uniformly random catalog entity.
func (e *Engine) randomTarget() (string, error) {
	entities := e.cat.Entities()
	idx, err := e.randomIndex(len(entities))
	if err != nil {
		return "", fmt.Errorf("draw random target: %w", err)
	}
	if idx < 0 || idx >= len(entities) {
		return "", fmt.Errorf("random index %d out of range", idx)
	}
	return entities[idx].ID, nil
}
