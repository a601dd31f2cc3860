// config.go
//
// Environment configuration for the Footle server.
// Values come from the process environment, optionally seeded from a .env
// file (see main). Every key has a development default.

package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/internal/game"
	"github.com/robalobadob/footle/internal/roster"
)

// Config is the resolved server configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool

	DBPath     string
	RosterFile string    // empty: embedded roster
	RosterAsOf time.Time // reference date for age and tenure

	DailySalt       string
	ChallengeSecret string // empty disables challenge codes
	ChallengeTTL    time.Duration

	Filter     roster.Filter
	Tolerances map[game.Attribute]int
	TimeLimit  time.Duration

	ClientOrigin string
	Secure       bool
}

// loadConfig reads Config from the environment.
func loadConfig() Config {
	c := Config{
		Port:            getEnv("PORT", "5175"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       envBool("LOG_PRETTY", false),
		DBPath:          getEnv("DB_PATH", "./data/footle.db"),
		RosterFile:      os.Getenv("ROSTER_FILE"),
		RosterAsOf:      envDate("ROSTER_AS_OF", time.Now().UTC()),
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
		ChallengeSecret: os.Getenv("CHALLENGE_SECRET"),
		ChallengeTTL:    time.Duration(envInt("CHALLENGE_TTL_HOURS", 24*7)) * time.Hour,
		TimeLimit:       time.Duration(envInt("TIMED_SECONDS", 120)) * time.Second,
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Secure:          envBool("COOKIE_SECURE", false),
	}

	c.Filter = roster.Filter{MinMinutes: envInt("MIN_MINUTES", 0)}
	if raw := os.Getenv("POSITIONS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			p, ok := roster.ParsePosition(part)
			if !ok {
				log.Warn().Str("position", part).Msg("ignoring unknown position in POSITIONS")
				continue
			}
			c.Filter.Positions = append(c.Filter.Positions, p)
		}
	}

	c.Tolerances = map[game.Attribute]int{}
	for attr, key := range map[game.Attribute]string{
		game.AttrAge:     "TOLERANCE_AGE",
		game.AttrMinutes: "TOLERANCE_MINUTES",
		game.AttrGoals:   "TOLERANCE_GOALS",
		game.AttrAssists: "TOLERANCE_ASSISTS",
		game.AttrTenure:  "TOLERANCE_TENURE",
	} {
		if v := envInt(key, -1); v >= 0 {
			c.Tolerances[attr] = v
		}
	}
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a boolean; using default")
		return def
	}
	return b
}

func envDate(k string, def time.Time) time.Time {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a YYYY-MM-DD date; using default")
		return def
	}
	return t
}
