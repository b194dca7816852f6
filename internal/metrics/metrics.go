// Package metrics provides Prometheus counters for the game engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spotle"

// Metrics holds the game counters exposed on /metrics.
type Metrics struct {
	SessionsStarted   *prometheus.CounterVec
	GuessesRecorded   prometheus.Counter
	Wins              prometheus.Counter
	Exhaustions       prometheus.Counter
	ChallengesCreated prometheus.Counter
	CodeRetries       prometheus.Counter
	Disambiguations   prometheus.Counter
}

// New registers the counters with the given registerer (pass
// prometheus.DefaultRegisterer in production, a fresh registry in tests).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions created or reset, by play mode.",
		}, []string{"mode"}),
		GuessesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_recorded_total",
			Help:      "Guesses scored and appended to a session.",
		}),
		Wins: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_total",
			Help:      "Sessions finished with a correct guess.",
		}),
		Exhaustions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exhaustions_total",
			Help:      "Sessions finished by reaching the attempt ceiling.",
		}),
		ChallengesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_created_total",
			Help:      "Challenge codes successfully registered.",
		}),
		CodeRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenge_code_retries_total",
			Help:      "Challenge code generation retries after a collision.",
		}),
		Disambiguations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disambiguations_total",
			Help:      "Guesses that produced a candidate choice list.",
		}),
	}
}
