// internal/httpserver/routes_game.go
//
// Game endpoints: mode switches, guesses, suggestion selections, and
// history. Engine error kinds map to HTTP statuses here; game-flow
// conditions (no active session, finished, exhausted) are expected
// outcomes, not server failures.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/challenge"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/engine"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/feedback"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/session"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/suggest"
)

type startRes struct {
	SessionKey  string `json:"sessionKey"`
	MaxAttempts int    `json:"maxAttempts"`
}

type guessReq struct {
	Guess string `json:"guess"`
}

type selectReq struct {
	Token string `json:"token"`
	Index int    `json:"index"`
}

type createChallengeReq struct {
	Target string `json:"target"`
}

// outcomeRes renders a scored guess.
type outcomeRes struct {
	Result       string           `json:"result"` // "scored"
	Ordinal      int              `json:"ordinal"`
	Verdict      feedback.Verdict `json:"verdict"`
	State        string           `json:"state"` // "active" | "won" | "exhausted"
	AttemptsLeft int              `json:"attemptsLeft"`
	Target       string           `json:"target,omitempty"` // revealed when terminal
}

// chooseRes renders a disambiguation request.
type chooseRes struct {
	Result  string   `json:"result"` // "choose"
	Token   string   `json:"token"`
	Choices []string `json:"choices"`
}

type challengeRes struct {
	Result string `json:"result"` // "challenge_created"
	Code   string `json:"code"`
}

func renderOutcome(out *session.Outcome) outcomeRes {
	state := "active"
	switch {
	case out.Won:
		state = "won"
	case out.Exhausted:
		state = "exhausted"
	}
	return outcomeRes{
		Result:       "scored",
		Ordinal:      out.Ordinal,
		Verdict:      out.Verdict,
		State:        state,
		AttemptsLeft: out.AttemptsLeft,
		Target:       out.TargetName,
	}
}

// writeGameError maps engine error kinds to JSON error payloads.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	var finished *session.FinishedError
	var exhausted *session.ExhaustedError
	switch {
	case errors.Is(err, engine.ErrUnresolvedEntity):
		http.Error(w, `{"error":"player_not_found"}`, http.StatusNotFound)
	case errors.Is(err, session.ErrNoActiveSession):
		http.Error(w, `{"error":"no_active_session"}`, http.StatusConflict)
	case errors.As(err, &finished):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "session_finished",
			"target": finished.TargetName,
		})
	case errors.As(err, &exhausted):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "attempts_exhausted",
			"target": exhausted.TargetName,
		})
	case errors.Is(err, suggest.ErrStaleToken):
		http.Error(w, `{"error":"stale_token"}`, http.StatusGone)
	case errors.Is(err, suggest.ErrIndexOutOfRange):
		http.Error(w, `{"error":"index_out_of_range"}`, http.StatusBadRequest)
	case errors.Is(err, challenge.ErrUnknownCode):
		http.Error(w, `{"error":"unknown_code"}`, http.StatusNotFound)
	case errors.Is(err, challenge.ErrCodeSpaceExhausted):
		// Operational alert: the code alphabet/length is under-provisioned.
		log.Error().Err(err).Msg("challenge code space exhausted")
		http.Error(w, `{"error":"code_space_exhausted"}`, http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("game operation failed")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStartDaily(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(w, r)
	key, err := s.engine.StartDaily(r.Context(), playerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startRes{SessionKey: key, MaxAttempts: s.engine.MaxAttempts()})
}

func (s *Server) handleStartRandom(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(w, r)
	key, err := s.engine.StartRandom(r.Context(), playerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startRes{SessionKey: key, MaxAttempts: s.engine.MaxAttempts()})
}

func (s *Server) handleStartChallenge(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(w, r)
	key, err := s.engine.StartChallenge(r.Context(), playerID, chi.URLParam(r, "code"))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startRes{SessionKey: key, MaxAttempts: s.engine.MaxAttempts()})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Guess == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	playerID := s.playerID(w, r)
	res, err := s.engine.Guess(r.Context(), playerID, req.Guess)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	if res.Choices != nil {
		writeJSON(w, http.StatusOK, chooseRes{Result: "choose", Token: res.Choices.Token, Choices: res.Choices.Names})
		return
	}
	if res.Outcome.Terminal() {
		s.bumpStatsFor(r, res.Outcome.Won)
	}
	writeJSON(w, http.StatusOK, renderOutcome(res.Outcome))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	playerID := s.playerID(w, r)
	res, err := s.engine.Select(r.Context(), playerID, req.Token, req.Index)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	if res.Code != "" {
		writeJSON(w, http.StatusOK, challengeRes{Result: "challenge_created", Code: res.Code})
		return
	}
	if res.Outcome.Terminal() {
		s.bumpStatsFor(r, res.Outcome.Won)
	}
	writeJSON(w, http.StatusOK, renderOutcome(res.Outcome))
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req createChallengeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Target == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	playerID := s.playerID(w, r)
	res, err := s.engine.CreateChallenge(r.Context(), playerID, req.Target)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	if res.Choices != nil {
		writeJSON(w, http.StatusOK, chooseRes{Result: "choose", Token: res.Choices.Token, Choices: res.Choices.Names})
		return
	}
	writeJSON(w, http.StatusOK, challengeRes{Result: "challenge_created", Code: res.Code})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(w, r)
	sess, history, err := s.engine.Status(r.Context(), playerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	if history == nil {
		history = []session.Attempt{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionKey": sess.Key,
		"mode":       session.KeyMode(sess.Key),
		"status":     sess.Status,
		"attempts":   history,
	})
}

// bumpStatsFor updates the user's aggregate stats when a session ends.
// Best effort and only for authenticated players; guests have no row.
func (s *Server) bumpStatsFor(r *http.Request, won bool) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		return
	}
	if err := s.bumpStats(me.ID, won); err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
	}
}
