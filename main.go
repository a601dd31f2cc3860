package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/assets"
	"github.com/robalobadob/footle/internal/game"
	"github.com/robalobadob/footle/internal/httpserver"
	"github.com/robalobadob/footle/internal/roster"
	"github.com/robalobadob/footle/internal/stats"
	"github.com/robalobadob/footle/internal/store"
	"github.com/robalobadob/footle/internal/target"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ro, err := roster.Load(cfg.RosterFile, cfg.RosterAsOf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load roster")
	}
	ro = ro.WithFilter(cfg.Filter)
	log.Info().Int("players", ro.Len()).Int("playable", len(ro.Playable())).Msg("roster loaded")

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	opts := []target.Option{target.WithSalt(cfg.DailySalt)}
	var challenges *target.Challenges
	if cfg.ChallengeSecret != "" {
		challenges = target.NewChallenges(cfg.ChallengeSecret, cfg.ChallengeTTL)
		opts = append(opts, target.WithChallenges(challenges))
	}

	srv := httpserver.New(httpserver.Deps{
		Sessions:     store.NewMemoryStore(),
		Journal:      store.NewJournal(db),
		Stats:        stats.NewStore(db),
		Selector:     target.NewSelector(ro, opts...),
		Challenges:   challenges,
		Table:        game.DefaultTable().WithTolerances(cfg.Tolerances),
		TimeLimit:    cfg.TimeLimit,
		ClientOrigin: cfg.ClientOrigin,
		Secure:       cfg.Secure,
	})
	log.Info().Str("port", cfg.Port).Msg("starting footle server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
