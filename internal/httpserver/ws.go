// internal/httpserver/ws.go
//
// Websocket play: GET /game/{id}/ws upgrades the connection, then every
// inbound {"x":..,"y":..} or {"reset":true} is fed through the same path as
// POST /game/fire and the resulting snapshot is written back.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/store"
)

type wsMsg struct {
	X     *int `json:"x"`
	Y     *int `json:"y"`
	Reset bool `json:"reset"`
}

type wsReply struct {
	Changed bool      `json:"changed"`
	Game    *snapshot `json:"game,omitempty"`
	Error   string    `json:"error,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin || origin == "http://"+r.Host
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	c := callerOf(r)
	if !c.owns(sess) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	initial := newSnapshot(sess)
	if err := conn.WriteJSON(wsReply{Game: &initial}); err != nil {
		return
	}

	for {
		var msg wsMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("gameId", id).Msg("websocket read")
			}
			return
		}

		var a action
		switch {
		case msg.Reset:
			a = action{Reset: true}
		case msg.X != nil && msg.Y != nil:
			a = action{X: *msg.X, Y: *msg.Y}
		default:
			if err := conn.WriteJSON(wsReply{Error: "missing_coordinate"}); err != nil {
				return
			}
			continue
		}

		sess, changed, err := s.play(r.Context(), c, id, a)
		var reply wsReply
		switch {
		case errors.Is(err, store.ErrNotFound):
			_ = conn.WriteJSON(wsReply{Error: "not_found"})
			return
		case errors.Is(err, errNotOwner):
			_ = conn.WriteJSON(wsReply{Error: "forbidden"})
			return
		case errors.Is(err, game.ErrInvalidCoordinate):
			reply.Error = "invalid_coordinate"
		case errors.Is(err, errDailyGame):
			reply.Error = "daily_game"
		case err != nil:
			log.Error().Err(err).Str("gameId", id).Msg("websocket play")
			reply.Error = "server_error"
		default:
			snap := newSnapshot(sess)
			reply = wsReply{Changed: changed, Game: &snap}
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
