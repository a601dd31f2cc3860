// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or reuses session)
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Guesses, hints and give-ups go through the regular /game endpoints.
// Each player can finish the daily once per date (enforced by the
// daily_results table); an unfinished daily session is handed back on retry.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/internal/game"
	"github.com/robalobadob/footle/internal/stats"
	"github.com/robalobadob/footle/internal/target"
)

const leaderboardSize = 20

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	mu       sync.Mutex        // guards sessions
	sessions map[string]string // owner|date → game id
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s, sessions: make(map[string]string)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	Played      bool   `json:"played"`
	MaxAttempts int    `json:"maxAttempts,omitempty"`
}

// handleNew creates or reuses today's daily session.
//   - Player already has a result row for today → Played=true, no game.
//   - An in-progress session for today exists → same GameID.
//   - Otherwise a new daily session is created.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	owner := s.ensureAnonID(w, r)
	date := s.deps.Selector.Today()

	if s.deps.Stats != nil {
		played, err := s.deps.Stats.AlreadyPlayed(r.Context(), owner, date)
		if err != nil {
			log.Warn().Err(err).Str("player", owner).Msg("daily lookup")
		} else if played {
			_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
			return
		}
	}

	key := owner + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.sessions[key]; ok {
		if sess, err := s.deps.Sessions.Get(r.Context(), id); err == nil {
			_ = json.NewEncoder(w).Encode(dailyNewRes{
				GameID:      id,
				Date:        date,
				Played:      sess.Status().Terminal(),
				MaxAttempts: sess.MaxAttempts(),
			})
			return
		}
		delete(d.sessions, key)
	}

	opts := s.sessionOptions(owner, 0)
	opts.Ranked = true
	sess, _, err := game.Start(s.deps.Selector, target.Request{Mode: target.ModeDaily}, opts)
	if err != nil {
		log.Error().Err(err).Msg("start daily")
		writeErr(w, http.StatusServiceUnavailable, "no_players")
		return
	}
	if !s.save(w, r, sess, owner) {
		return
	}
	d.sessions[key] = sess.ID()

	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID(), Date: sess.Date(), MaxAttempts: sess.MaxAttempts()})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []stats.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	if s.deps.Stats == nil {
		writeErr(w, http.StatusNotImplemented, "stats_disabled")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.deps.Selector.Today()
	}
	rows, err := s.deps.Stats.Leaderboard(r.Context(), date, leaderboardSize)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
