// Package config defines process configuration and its loading.
//
// Precedence (low -> high): defaults, optional YAML file named by
// SPOTLE_CONFIG, then SPOTLE_* environment variables.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// CatalogPath and RotationPath locate the static game data.
	CatalogPath  string `koanf:"catalog_path"`
	RotationPath string `koanf:"rotation_path"`

	// MaxAttempts is the per-session attempt ceiling.
	MaxAttempts int `koanf:"max_attempts"`

	// SuggestionLimit caps disambiguation candidate lists.
	SuggestionLimit int `koanf:"suggestion_limit"`

	// Comparison tolerances. Zero is a valid exact-only band; a negative
	// SecondaryTolerance picks the default for the configured
	// SecondaryMetric kind.
	DebutTolerance     int    `koanf:"debut_tolerance"`
	RatingTolerance    int    `koanf:"rating_tolerance"`
	SecondaryMetric    string `koanf:"secondary_metric"` // awards | valuation
	SecondaryTolerance int    `koanf:"secondary_tolerance"`

	// Challenge code shape.
	CodeLength     int `koanf:"code_length"`
	CodeMaxRetries int `koanf:"code_max_retries"`

	// HTTP surface.
	CORSOrigin          string `koanf:"cors_origin"`
	RateLimitRequests   int    `koanf:"rate_limit_requests"`
	RateLimitWindowSecs int    `koanf:"rate_limit_window_secs"`

	// Auth.
	JWTSecret      string `koanf:"jwt_secret"`
	JWTExpiresDays int    `koanf:"jwt_expires_days"`
	CookieName     string `koanf:"cookie_name"`
	Environment    string `koanf:"environment"` // development | production
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		DBPath:              "./data/game.db",
		CatalogPath:         "players.json",
		RotationPath:        "puzzles.json",
		MaxAttempts:         10,
		SuggestionLimit:     5,
		DebutTolerance:      2,
		RatingTolerance:     20,
		SecondaryMetric:     "awards",
		SecondaryTolerance:  -1,
		CodeLength:          6,
		CodeMaxRetries:      5,
		CORSOrigin:          "http://localhost:5173",
		RateLimitRequests:   60,
		RateLimitWindowSecs: 60,
		JWTSecret:           "dev_secret_change_me",
		JWTExpiresDays:      14,
		CookieName:          "spotle_token",
		Environment:         "development",
	}
}
