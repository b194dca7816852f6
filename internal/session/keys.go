package session

import "strings"

// Session keys encode the play mode and its disambiguating parameter.
// Exactly one session per (player, key) exists at a time.

const (
	ModeDaily     = "daily"
	ModeRandom    = "random"
	ModeChallenge = "challenge"
)

// DailyKey returns the session key for the daily puzzle of a date key
// (YYYY-MM-DD).
func DailyKey(date string) string { return ModeDaily + ":" + date }

// RandomKey returns the session key for one unlimited-mode round.
func RandomKey(roundToken string) string { return ModeRandom + ":" + roundToken }

// ChallengeKey returns the session key for a shared challenge code.
func ChallengeKey(code string) string { return ModeChallenge + ":" + code }

// KeyMode extracts the play mode from a session key.
func KeyMode(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
