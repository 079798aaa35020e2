// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily field.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/fire        → fire one shot in today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Everyone gets the same field on a given date (seeded from date + salt).
// Each player can finish it once per day (enforced by DB + in-memory index).
// A finished daily game is locked: it never resets onto a fresh field.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/daily"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/layout"
	"github.com/robalobadob/battleship/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	results  *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]string // session ID keyed by player|date
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		results:  daily.NewStore(s.db),
		salt:     s.cfg.Daily.Salt,
		now:      time.Now,
		sessions: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/fire", dd.handleFire)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// player returns the authenticated user ID if logged in, otherwise the anon ID.
func (d *dailyServer) player(w http.ResponseWriter, r *http.Request) (userID, anonID string) {
	return d.srv.owner(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string    `json:"gameId"`
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *snapshot `json:"game,omitempty"`
}

// handleNew creates or reuses the daily session for the current date.
//   - If the player already has a result for today → Played=true.
//   - Otherwise the same session is returned for every call that day.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	userID, anonID := d.player(w, r)
	pid := userID + anonID
	now := d.now()
	date := daily.DateKey(now)

	if played, err := d.results.AlreadyPlayed(r.Context(), pid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)
	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			snap := newSnapshot(sess)
			_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: id, Date: date, Game: &snap})
			return
		}
	}

	gen := daily.Generator(now, d.salt, d.srv.cfg.Game.FieldSize, layout.Ships(), log.Logger)
	sess := store.NewSession(userID, anonID, game.GameState{Mode: game.ModePlayerTurn, Player: gen.Generate()})
	sess.Daily = date
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	d.sessions[key] = sess.ID
	d.srv.metrics.startedGame(r.Context())

	snap := newSnapshot(sess)
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID, Date: date, Game: &snap})
}

// pruneLocked drops index entries from days other than date. Callers hold d.mu.
func (d *dailyServer) pruneLocked(date string) {
	for k := range d.sessions {
		if !strings.HasSuffix(k, "|"+date) {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/fire

type dailyFireRes struct {
	Changed bool     `json:"changed"`
	State   string   `json:"state"` // in_progress | won | locked
	Game    snapshot `json:"game"`
}

var errLocked = errors.New("daily game already finished")

// handleFire applies one shot to today's daily session.
// Unlike /game/fire, a shot after the last ship sank does not start a new
// field; the session reports "locked" instead.
func (d *dailyServer) handleFire(w http.ResponseWriter, r *http.Request) {
	userID, anonID := d.player(w, r)
	pid := userID + anonID

	var req fireReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.GameID == "" || req.X == nil || req.Y == nil {
		http.Error(w, `{"error":"invalid"}`, http.StatusBadRequest)
		return
	}

	date := daily.DateKey(d.now())
	d.mu.Lock()
	id, ok := d.sessions[pid+"|"+date]
	d.mu.Unlock()
	if !ok || id != req.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}

	var prev game.GameState
	sess, err := d.srv.store.Update(r.Context(), id, func(sess *store.Session) error {
		prev = sess.State
		if prev.Mode == game.ModeGameOver {
			return errLocked
		}
		next, err := game.Shoot(prev, *req.X, *req.Y)
		if err != nil {
			return err
		}
		if !next.Same(prev) {
			sess.Shots++
		}
		sess.State = next
		return nil
	})
	switch {
	case errors.Is(err, errLocked):
		_ = json.NewEncoder(w).Encode(dailyFireRes{State: "locked", Game: newSnapshot(sess)})
		return
	case errors.Is(err, game.ErrInvalidCoordinate):
		http.Error(w, `{"error":"invalid_coordinate"}`, http.StatusBadRequest)
		return
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", id).Msg("daily fire")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}

	changed := !sess.State.Same(prev)
	d.srv.metrics.shot(r.Context(), prev, sess.State, *req.X, *req.Y)
	if !changed || sess.State.Mode != game.ModeGameOver {
		_ = json.NewEncoder(w).Encode(dailyFireRes{Changed: changed, State: "in_progress", Game: newSnapshot(sess)})
		return
	}

	d.srv.metrics.finishedGame(r.Context())
	elapsed := int(time.Since(sess.StartedAt).Milliseconds())
	if err := d.results.InsertResult(r.Context(), daily.Result{
		UserID: pid, Date: sess.Daily, Shots: sess.Shots, ElapsedMs: elapsed,
	}); err != nil {
		log.Warn().Err(err).Str("player", pid).Msg("insert daily result")
	}
	_ = json.NewEncoder(w).Encode(dailyFireRes{Changed: true, State: "won", Game: newSnapshot(sess)})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
