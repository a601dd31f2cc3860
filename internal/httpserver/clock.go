// internal/httpserver/clock.go
//
// GET /game/{id}/clock streams the countdown of a session over a WebSocket.
// One frame per tick until the session is terminal; the last frame carries
// the final state. Untimed sessions get a single frame and the socket closes.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/internal/game"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

const clockWriteWait = 5 * time.Second

// clockFrame is one countdown update.
type clockFrame struct {
	GameID      string      `json:"gameId"`
	State       game.Status `json:"state"`
	RemainingMs int64       `json:"remainingMs"`
	Attempts    int         `json:"attempts"`
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID()).Msg("clock upgrade")
		return
	}
	defer conn.Close()

	// Reader: notice client disconnects.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	t := time.NewTicker(s.deps.ClockTick)
	defer t.Stop()
	for {
		f := clockFrame{
			GameID:      sess.ID(),
			State:       sess.Status(),
			RemainingMs: sess.Remaining().Milliseconds(),
			Attempts:    sess.Attempts(),
		}
		_ = conn.SetWriteDeadline(time.Now().Add(clockWriteWait))
		if err := conn.WriteJSON(f); err != nil {
			log.Debug().Err(err).Str("gameId", sess.ID()).Msg("clock write")
			return
		}
		if f.State.Terminal() || !sess.Timed() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(f.State)),
				time.Now().Add(clockWriteWait))
			return
		}
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-t.C:
		}
	}
}
