// Command spotle runs the football guessing-game service.
//
// Usage:
//
//	spotle serve
//	spotle catalog check
//	SPOTLE_ADDR=:9090 spotle serve
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/afdhfjfkcm/spotle-football-bot/assets"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/challenge"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/config"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/daily"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/db"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/engine"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/feedback"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/httpserver"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/metrics"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/session"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/suggest"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "spotle",
		Short:         "Footballer guessing-game service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(catalogCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}

			cat, rot, err := loadGameData(cfg)
			if err != nil {
				return err
			}
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			m := metrics.New(prometheus.DefaultRegisterer)
			fb := feedback.New(
				feedback.WithDebutTolerance(cfg.DebutTolerance),
				feedback.WithRatingTolerance(cfg.RatingTolerance),
				feedback.WithSecondaryTolerance(cfg.SecondaryTolerance),
				feedback.WithSecondaryKind(feedback.SecondaryKind(cfg.SecondaryMetric)),
			)
			eng := engine.New(engine.Deps{
				Catalog:  cat,
				Rotation: rot,
				Sessions: session.NewStore(database, cat, fb, cfg.MaxAttempts),
				Challenges: challenge.NewRegistry(database,
					challenge.WithCodeLength(cfg.CodeLength),
					challenge.WithMaxRetries(cfg.CodeMaxRetries),
					challenge.WithCollisionHook(m.CodeRetries.Inc)),
				Suggestions:     suggest.NewCache(database),
				Metrics:         m,
				SuggestionLimit: cfg.SuggestionLimit,
			})

			srv := httpserver.New(eng, database, cfg)
			log.Info().
				Str("addr", cfg.Addr).
				Int("players", cat.Len()).
				Int("rotation", rot.Len()).
				Msg("starting spotle server")
			return srv.Start(cfg.Addr)
		},
	}
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the static game data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the player catalog and daily rotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cat, rot, err := loadGameData(cfg)
			if err != nil {
				return err
			}
			log.Info().
				Int("players", cat.Len()).
				Int("rotation", rot.Len()).
				Msg("catalog and rotation are valid")
			return nil
		},
	})
	return cmd
}

// loadGameData reads the catalog and rotation from the configured paths,
// falling back to the embedded defaults when a path does not exist.
func loadGameData(cfg *config.Config) (*catalog.Catalog, *daily.Rotation, error) {
	var cat *catalog.Catalog
	var err error
	if _, statErr := os.Stat(cfg.CatalogPath); statErr == nil {
		cat, err = catalog.Load(cfg.CatalogPath)
	} else {
		var raw []byte
		if raw, err = assets.PlayersJSON(); err == nil {
			cat, err = catalog.Parse(raw)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	var rot *daily.Rotation
	if _, statErr := os.Stat(cfg.RotationPath); statErr == nil {
		rot, err = daily.Load(cfg.RotationPath, cat)
	} else {
		var raw []byte
		if raw, err = assets.PuzzlesJSON(); err == nil {
			rot, err = daily.Parse(raw, cat)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return cat, rot, nil
}
