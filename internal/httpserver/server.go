// internal/httpserver/server.go
//
// HTTP server wiring for the Footle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health", "/players", "/teams", "/debug/roster".
//   - Game endpoints: POST /game/new, /game/guess, /game/hint, /game/giveup;
//     GET /game/{id}, /game/{id}/share, /game/{id}/clock (WebSocket).
//   - Custom challenge codes: POST /challenge.
//   - Daily Challenge endpoints: mounted under /daily.
//   - Stats: GET /stats/me, POST /stats/reset.
//
// Notes:
//   - Players are anonymous; a UUID cookie ties games and stats together.
//   - The mystery player is only revealed once a session is terminal.
//   - Stats and journal writes are best effort; failures are logged.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/internal/game"
	"github.com/robalobadob/footle/internal/roster"
	"github.com/robalobadob/footle/internal/stats"
	"github.com/robalobadob/footle/internal/store"
	"github.com/robalobadob/footle/internal/target"
)

const (
	anonCookieName     = "footle_anon"
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

// Deps are the collaborators a Server needs. Journal and Stats may be nil.
type Deps struct {
	Sessions     store.Store
	Journal      *store.Journal
	Stats        *stats.Store
	Selector     *target.Selector
	Challenges   *target.Challenges
	Table        game.Table
	TimeLimit    time.Duration // used when a game is started with timed=true
	ClockTick    time.Duration // countdown and clock stream resolution
	ClientOrigin string
	Secure       bool // mark cookies Secure/SameSite=None
}

// Server bundles router and game dependencies.
type Server struct {
	r    *chi.Mux
	deps Deps

	mu         sync.Mutex
	lastTarget map[string]*roster.Player // per player, for random no-repeat
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Table == nil {
		d.Table = game.DefaultTable()
	}
	if d.ClockTick <= 0 {
		d.ClockTick = game.DefaultTick
	}
	s := &Server{r: chi.NewRouter(), deps: d, lastTarget: make(map[string]*roster.Player)}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(accessLog(log.Logger)...)
	s.r.Use(cors(d.ClientOrigin))

	// Long-lived WebSocket; kept out of the timeout group.
	s.r.Get("/game/{id}/clock", s.handleClock)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"footle","endpoints":["/health","POST /game/new","POST /game/guess","POST /game/hint","POST /game/giveup","/daily/*","/stats/me"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/roster", func(w http.ResponseWriter, r *http.Request) {
			ro := s.roster()
			_ = json.NewEncoder(w).Encode(map[string]int{"players": ro.Len(), "playable": len(ro.Playable())})
		})

		r.Get("/players", s.handleSearch)
		r.Get("/teams", s.handleTeams)
		r.Post("/challenge", s.handleChallenge)

		r.Route("/game", func(r chi.Router) {
			r.Post("/new", s.handleNewGame)
			r.Post("/guess", s.handleGuess)
			r.Post("/hint", s.handleHint)
			r.Post("/giveup", s.handleGiveUp)
			r.Get("/{id}", s.handleGetGame)
			r.Get("/{id}/share", s.handleShare)
		})

		s.mountDaily(r)

		r.Get("/stats/me", s.handleStats)
		r.Post("/stats/reset", s.handleStatsReset)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) roster() *roster.Roster { return s.deps.Selector.Roster() }

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode      string `json:"mode"`      // "daily" | "random" | "custom"
	Index     *int   `json:"index"`     // custom: roster ordinal
	Name      string `json:"name"`      // custom: player name
	Challenge string `json:"challenge"` // custom: signed code from POST /challenge
	Team      string `json:"team"`      // random: draw from one club
	Timed     bool   `json:"timed"`
}
type newGameRes struct {
	GameID      string      `json:"gameId"`
	Mode        target.Mode `json:"mode"`
	Date        string      `json:"date,omitempty"`
	MaxAttempts int         `json:"maxAttempts"`
	TimeLimitMs int64       `json:"timeLimitMs,omitempty"`
	FellBack    bool        `json:"fellBack,omitempty"`
}

// handleNewGame selects a mystery player and creates a session.
// Custom requests that cannot be resolved fall back to the daily player.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	owner := s.ensureAnonID(w, r)

	treq := target.Request{
		Mode:      target.ParseMode(req.Mode),
		Index:     req.Index,
		Name:      req.Name,
		Challenge: req.Challenge,
		Team:      req.Team,
	}
	s.mu.Lock()
	treq.Previous = s.lastTarget[owner]
	s.mu.Unlock()

	var limit time.Duration
	if req.Timed {
		limit = s.deps.TimeLimit
	}
	sess, pick, err := game.Start(s.deps.Selector, treq, s.sessionOptions(owner, limit))
	if err != nil {
		log.Error().Err(err).Msg("start game")
		writeErr(w, http.StatusServiceUnavailable, "no_players")
		return
	}
	if pick.FellBack {
		log.Info().Str("gameId", sess.ID()).Str("mode", string(pick.Mode)).Msg("requested target unavailable; fell back")
	}
	if !s.save(w, r, sess, owner) {
		return
	}

	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:      sess.ID(),
		Mode:        pick.Mode,
		Date:        sess.Date(),
		MaxAttempts: sess.MaxAttempts(),
		TimeLimitMs: limit.Milliseconds(),
		FellBack:    pick.FellBack,
	})
}

// sessionOptions builds the game options shared by every session this server creates.
func (s *Server) sessionOptions(owner string, limit time.Duration) game.Options {
	opts := game.Options{
		Table:     s.deps.Table,
		TimeLimit: limit,
		Tick:      s.deps.ClockTick,
		Owner:     owner,
		OnFinish:  s.finish,
	}
	if s.deps.Journal != nil {
		opts.Journal = s.deps.Journal
	}
	return opts
}

// save stores a new session and remembers its target for no-repeat draws.
func (s *Server) save(w http.ResponseWriter, r *http.Request, sess *game.Session, owner string) bool {
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		sess.Close()
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return false
	}
	s.mu.Lock()
	s.lastTarget[owner] = sess.Target()
	s.mu.Unlock()
	if s.deps.Journal != nil {
		if err := s.deps.Journal.Record(r.Context(), sess.Snapshot()); err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID()).Msg("journal new game")
		}
	}
	return true
}

// gameReq is the body of guess/hint/giveup calls.
type gameReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// guessRes is returned by POST /game/guess.
type guessRes struct {
	Outcome  game.Outcome `json:"outcome"`
	State    game.Status  `json:"state"`
	Attempts int          `json:"attempts"`
	Target   *targetView  `json:"target,omitempty"`
}

// handleGuess scores a guess.
//   - 400 empty_guess / player_not_found: attempt not consumed.
//   - 409 game_finished: the session is terminal.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.session(w, r, req.GameID)
	if !ok {
		return
	}
	out, err := sess.SubmitGuess(r.Context(), req.Guess)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	st := sess.Status()
	_ = json.NewEncoder(w).Encode(guessRes{
		Outcome:  out,
		State:    st,
		Attempts: sess.Attempts(),
		Target:   reveal(sess, st),
	})
}

// hintRes is returned by POST /game/hint.
type hintRes struct {
	Hint     game.Hint   `json:"hint"`
	Text     string      `json:"text"`
	State    game.Status `json:"state"`
	Attempts int         `json:"attempts"`
	Target   *targetView `json:"target,omitempty"`
}

// handleHint reveals one attribute; 409 no_hints when none are left.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.session(w, r, req.GameID)
	if !ok {
		return
	}
	h, err := sess.RequestHint(r.Context())
	if err != nil {
		writeGameErr(w, err)
		return
	}
	st := sess.Status()
	_ = json.NewEncoder(w).Encode(hintRes{
		Hint:     h,
		Text:     h.String(),
		State:    st,
		Attempts: sess.Attempts(),
		Target:   reveal(sess, st),
	})
}

// handleGiveUp ends the session and reveals the target.
func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.session(w, r, req.GameID)
	if !ok {
		return
	}
	if err := sess.GiveUp(r.Context()); err != nil {
		writeGameErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(view(sess))
}

// handleGetGame returns the current state, resuming from the journal if needed.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(view(sess))
}

// handleShare returns the share grid as plain text.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sess.Share()))
}

// session finds a session owned by the caller. Sessions missing from memory
// are restored from the journal. Writes a 404 and returns false otherwise.
func (s *Server) session(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	owner := s.ensureAnonID(w, r)
	if id == "" {
		writeErr(w, http.StatusBadRequest, "missing_game_id")
		return nil, false
	}
	sess, err := s.deps.Sessions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) && s.deps.Journal != nil {
		sess, err = s.resume(r.Context(), id, owner)
	}
	if err != nil || sess.Owner() != owner {
		writeErr(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

func (s *Server) resume(ctx context.Context, id, owner string) (*game.Session, error) {
	snap, err := s.deps.Journal.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap.Owner != owner {
		return nil, store.ErrNotFound
	}
	sess, err := game.Restore(s.roster(), snap, s.sessionOptions(owner, 0))
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("restore session")
		return nil, err
	}
	// Ran out of time while nobody held it in memory.
	if snap.Status == game.StatusInProgress && sess.Status().Terminal() {
		final := sess.Snapshot()
		if err := s.deps.Journal.Record(ctx, final); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("journal expired session")
		}
		s.finish(final)
	}
	if err := s.deps.Sessions.Save(ctx, sess); err != nil {
		sess.Close()
		return nil, err
	}
	log.Info().Str("gameId", id).Msg("session resumed from journal")
	return sess, nil
}

// finish runs once per session after it reaches a terminal state.
// Updates player stats and, for daily games, the daily results table.
func (s *Server) finish(snap game.Snapshot) {
	if s.deps.Stats == nil || snap.Owner == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g := stats.Game{
		Won:      snap.Won(),
		Attempts: snap.Attempts,
		Hints:    snap.Hints,
		Timed:    snap.TimeLimitMs > 0,
	}
	if p, ok := s.roster().Lookup(snap.Target); ok {
		g.TargetGoals, _ = p.Stat(roster.StatGoals)
		g.TargetAssists, _ = p.Stat(roster.StatAssists)
	}
	if _, fresh, err := s.deps.Stats.RecordGame(ctx, snap.Owner, g); err != nil {
		log.Warn().Err(err).Str("player", snap.Owner).Msg("record stats")
	} else if len(fresh) > 0 {
		log.Info().Str("player", snap.Owner).Strs("achievements", fresh).Msg("achievements unlocked")
	}

	// Only /daily/new games are official; daily practice from /game/new is not.
	if snap.Ranked && snap.Date != "" {
		err := s.deps.Stats.InsertResult(ctx, stats.DailyResult{
			PlayerID:    snap.Owner,
			Date:        snap.Date,
			TargetIndex: snap.TargetIndex,
			Attempts:    snap.Attempts,
			Hints:       snap.Hints,
			Won:         snap.Won(),
			ElapsedMs:   snap.Elapsed().Milliseconds(),
		})
		if err != nil {
			log.Warn().Err(err).Str("player", snap.Owner).Msg("insert daily result")
		}
	}
}

// ----------------------------- views ----------------------------------------

// targetView describes the mystery player once the game is over.
type targetView struct {
	Name     string          `json:"name"`
	Team     string          `json:"team"`
	Position roster.Position `json:"position"`
	Code     string          `json:"code,omitempty"`
}

func reveal(sess *game.Session, st game.Status) *targetView {
	if !st.Terminal() {
		return nil
	}
	p := sess.Target()
	return &targetView{Name: p.Name, Team: p.Team, Position: p.Position, Code: p.Code}
}

// sessionView is the public state of a session.
type sessionView struct {
	GameID      string       `json:"gameId"`
	Mode        target.Mode  `json:"mode"`
	Date        string       `json:"date,omitempty"`
	State       game.Status  `json:"state"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"maxAttempts"`
	Hints       int          `json:"hints"`
	History     []game.Entry `json:"history"`
	Bounds      game.Bounds  `json:"bounds"`
	RemainingMs int64        `json:"remainingMs,omitempty"`
	Target      *targetView  `json:"target,omitempty"`
}

func view(sess *game.Session) sessionView {
	snap := sess.Snapshot()
	history := snap.History
	if history == nil {
		history = []game.Entry{}
	}
	return sessionView{
		GameID:      snap.ID,
		Mode:        snap.Mode,
		Date:        snap.Date,
		State:       snap.Status,
		Attempts:    snap.Attempts,
		MaxAttempts: snap.MaxAttempts,
		Hints:       snap.Hints,
		History:     history,
		Bounds:      snap.Bounds,
		RemainingMs: snap.RemainingMs,
		Target:      reveal(sess, snap.Status),
	}
}

// ----------------------------- players --------------------------------------

type playerHit struct {
	Name     string          `json:"name"`
	Team     string          `json:"team"`
	Position roster.Position `json:"position"`
}

// handleSearch powers guess autocomplete: GET /players?q=sal&limit=5.
// team=Arsenal narrows the hits to one club; with no q it lists that club.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultSearchLimit
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		limit = min(n, maxSearchLimit)
	}

	var hits []*roster.Player
	if team := q.Get("team"); team != "" {
		needle := roster.NormalizeName(q.Get("q"))
		for _, p := range roster.OnTeam(s.roster().All(), team) {
			if strings.Contains(p.Key(), needle) {
				hits = append(hits, p)
			}
		}
		hits = hits[:min(len(hits), limit)]
	} else {
		hits = s.roster().Search(q.Get("q"), limit)
	}

	out := []playerHit{}
	for _, p := range hits {
		out = append(out, playerHit{Name: p.Name, Team: p.Team, Position: p.Position})
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleTeams lists the clubs on the roster: GET /teams.
func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.roster().Teams())
}

type challengeReq struct {
	Name  string `json:"name"`
	Index *int   `json:"index"`
}
type challengeRes struct {
	Code      string     `json:"code"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// handleChallenge issues a signed code that starts a custom game on the
// given player without exposing the name in the link.
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	if s.deps.Challenges == nil {
		writeErr(w, http.StatusNotImplemented, "challenges_disabled")
		return
	}
	var req challengeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	var (
		p   *roster.Player
		err error
	)
	if req.Index != nil {
		p, err = s.deps.Selector.ByIndex(*req.Index)
	} else {
		p, err = s.deps.Selector.ByName(req.Name)
	}
	if err != nil {
		writeErr(w, http.StatusNotFound, "player_not_found")
		return
	}
	code, exp, err := s.deps.Challenges.Issue(p)
	if err != nil {
		log.Error().Err(err).Msg("sign challenge")
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	res := challengeRes{Code: code}
	if !exp.IsZero() {
		res.ExpiresAt = &exp
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------ stats ---------------------------------------

type statsRes struct {
	stats.Record
	WinRate float64 `json:"winRate"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Stats == nil {
		writeErr(w, http.StatusNotImplemented, "stats_disabled")
		return
	}
	rec, err := s.deps.Stats.Get(r.Context(), s.ensureAnonID(w, r))
	if err != nil {
		log.Error().Err(err).Msg("load stats")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(statsRes{Record: rec, WinRate: rec.WinRate()})
}

func (s *Server) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	if s.deps.Stats == nil {
		writeErr(w, http.StatusNotImplemented, "stats_disabled")
		return
	}
	if err := s.deps.Stats.Reset(r.Context(), s.ensureAnonID(w, r)); err != nil {
		log.Error().Err(err).Msg("reset stats")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// --------------------------- anonymous id -----------------------------------

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if id, ok := r.Context().Value(anonKey{}).(string); ok {
		return id
	}
	id := uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if s.deps.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.Secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	*r = *r.WithContext(context.WithValue(r.Context(), anonKey{}, id))
	return id
}

// anonKey caches a freshly minted anon id for the rest of the request.
type anonKey struct{}

// ------------------------------- errors -------------------------------------

func writeErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// writeGameErr maps engine errors to HTTP responses.
func writeGameErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrEmptyGuess):
		writeErr(w, http.StatusBadRequest, "empty_guess")
	case errors.Is(err, game.ErrUnknownPlayer):
		writeErr(w, http.StatusBadRequest, "player_not_found")
	case errors.Is(err, game.ErrNoHints):
		writeErr(w, http.StatusConflict, "no_hints")
	case errors.Is(err, game.ErrGameOver):
		writeErr(w, http.StatusConflict, "game_finished")
	default:
		log.Error().Err(err).Msg("game error")
		writeErr(w, http.StatusInternalServerError, "server_error")
	}
}
