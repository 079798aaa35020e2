// internal/httpserver/server.go
//
// HTTP server wiring for the battleship backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/fire,
//     POST /game/reset, GET /game/{id}, GET /game/{id}/ws.
//   - Daily field endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Game state lives only in the session store; the database keeps one
//     summary row per generated field (round) and per-user stats.
//   - Every shot on a session goes through store.Update, so the engine sees
//     one action at a time per game.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/layout"
	"github.com/robalobadob/battleship/internal/store"
)

// Server bundles router, session store, engine and DB handle.
type Server struct {
	r       *chi.Mux
	store   store.Store
	db      *sql.DB
	engine  *game.Engine
	cfg     config.Config
	metrics *metrics
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, engine *game.Engine, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, engine: engine, cfg: cfg, metrics: newMetrics()}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// websocket play runs outside the handler timeout
	s.r.With(s.withOptionalAuth()).Get("/game/{id}/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"battleship-go","endpoints":["/health","POST /game/new","POST /game/fire","POST /game/reset","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/layout", func(w http.ResponseWriter, r *http.Request) {
			ships, cells := layout.Stats()
			_ = json.NewEncoder(w).Encode(map[string]int{"ships": ships, "cells": cells, "fieldSize": s.cfg.Game.FieldSize})
		})

		// Game endpoints: optional auth (guests can play)
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/fire", s.handleFire)
			r.Post("/game/reset", s.handleReset)
			r.Get("/game/{id}", s.handleGetGame)

			// Daily field: optional auth (guests can play; result persisted on win)
			s.mountDaily(r)
		})

		// Auth + profile/stats (require auth)
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

type newGameRes struct {
	GameID string   `json:"gameId"`
	Game   snapshot `json:"game"`
}

// handleNewGame creates a new session on a fresh field and records the
// owner row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	userID, anonID := s.owner(w, r)
	sess := store.NewSession(userID, anonID, s.engine.New())
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.metrics.startedGame(r.Context())
	s.recordRoundStart(r.Context(), sess)

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, Game: newSnapshot(sess)})
}

// fireReq/Res payloads for POST /game/fire.
type fireReq struct {
	GameID string `json:"gameId"`
	X      *int   `json:"x"`
	Y      *int   `json:"y"`
}
type fireRes struct {
	Changed bool     `json:"changed"`
	Game    snapshot `json:"game"`
}

// handleFire forwards one shot to the turn engine. In game_over any shot
// restarts the game on a fresh field.
func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	var req fireReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.X == nil || req.Y == nil {
		http.Error(w, `{"error":"missing_coordinate"}`, http.StatusBadRequest)
		return
	}
	s.respondPlay(w, r, req.GameID, action{X: *req.X, Y: *req.Y})
}

type resetReq struct {
	GameID string `json:"gameId"`
}

// handleReset is the dedicated restart control; it works in any mode.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.respondPlay(w, r, req.GameID, action{Reset: true})
}

// handleGetGame returns the current snapshot of a game owned by the caller.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if !callerOf(r).owns(sess) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}
	_ = json.NewEncoder(w).Encode(newSnapshot(sess))
}

func (s *Server) respondPlay(w http.ResponseWriter, r *http.Request, gameID string, a action) {
	sess, changed, err := s.play(r.Context(), callerOf(r), gameID, a)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	case errors.Is(err, errNotOwner):
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	case errors.Is(err, game.ErrInvalidCoordinate):
		http.Error(w, `{"error":"invalid_coordinate"}`, http.StatusBadRequest)
		return
	case errors.Is(err, errDailyGame):
		http.Error(w, `{"error":"daily_game"}`, http.StatusConflict)
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", gameID).Msg("play")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(fireRes{Changed: changed, Game: newSnapshot(sess)})
}

// action is one player input: a shot at (X, Y) or an explicit restart.
type action struct {
	X, Y  int
	Reset bool
}

var (
	errDailyGame = errors.New("daily games are played through /daily")
	errNotOwner  = errors.New("game belongs to another player")
)

// caller identifies who sent a request: the signed-in user, the guest
// cookie, or both right after a guest signs in.
type caller struct {
	UserID string
	AnonID string
}

// callerOf reads the caller without issuing a new anon cookie.
func callerOf(r *http.Request) caller {
	var c caller
	if me := currentUser(r); me != nil {
		c.UserID = me.ID
	}
	if ck, err := r.Cookie(anonCookieName); err == nil {
		c.AnonID = ck.Value
	}
	return c
}

func (c caller) owns(sess store.Session) bool {
	return (sess.UserID != "" && sess.UserID == c.UserID) ||
		(sess.AnonID != "" && sess.AnonID == c.AnonID)
}

// finishedRound is a round closed by an action, recorded after the store
// lock is released.
type finishedRound struct {
	ID     string
	Shots  int
	Status string // won | abandoned
}

// play applies a to the session owned by c and records the side effects:
// metrics, round rows and stats. The returned bool is false for a no-op shot.
func (s *Server) play(ctx context.Context, c caller, gameID string, a action) (store.Session, bool, error) {
	var prev game.GameState
	var closed *finishedRound
	var newRound bool
	sess, err := s.store.Update(ctx, gameID, func(sess *store.Session) error {
		if !c.owns(*sess) {
			return errNotOwner
		}
		if sess.Daily != "" {
			return errDailyGame
		}
		// a guest who signed in keeps playing under the account
		if sess.UserID == "" && c.UserID != "" {
			sess.UserID = c.UserID
		}
		prev = sess.State
		if a.Reset {
			if prev.Mode == game.ModePlayerTurn {
				closed = &finishedRound{ID: sess.RoundID, Shots: sess.Shots, Status: "abandoned"}
			}
			sess.NewRound(s.engine.Reset())
			newRound = true
			return nil
		}
		next, err := s.engine.Fire(prev, a.X, a.Y)
		if err != nil {
			return err
		}
		if prev.Mode == game.ModeGameOver {
			sess.NewRound(next)
			newRound = true
			return nil
		}
		if !next.Same(prev) {
			sess.Shots++
		}
		sess.State = next
		if !next.Same(prev) && next.Mode == game.ModeGameOver {
			closed = &finishedRound{ID: sess.RoundID, Shots: sess.Shots, Status: "won"}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, game.ErrInvalidCoordinate) {
			log.Debug().Err(err).Str("gameId", gameID).Msg("rejected shot")
		}
		if errors.Is(err, errNotOwner) {
			log.Warn().Str("gameId", gameID).Msg("action on a game owned by someone else")
			return store.Session{}, false, err
		}
		return sess, false, err
	}

	if closed != nil {
		if closed.Status == "won" {
			s.metrics.finishedGame(ctx)
		}
		s.recordRoundEnd(ctx, c, sess.UserID, *closed)
	}
	if newRound {
		s.metrics.startedGame(ctx)
		s.recordRoundStart(ctx, sess)
		return sess, true, nil
	}
	s.metrics.shot(ctx, prev, sess.State, a.X, a.Y)
	return sess, !sess.State.Same(prev), nil
}

// ------------------------------ persistence --------------------------------

// recordRoundStart inserts the games row for a freshly generated field.
func (s *Server) recordRoundStart(ctx context.Context, sess store.Session) {
	if s.db == nil {
		return
	}
	now := sess.StartedAt.Format(time.RFC3339)
	owner := any(nil)
	anon := any(nil)
	if sess.UserID != "" {
		owner = sess.UserID
	} else if sess.AnonID != "" {
		anon = sess.AnonID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO games (id, user_id, anonymous_id, started_at, status, shots, ships)
	                                 VALUES (?,?,?,?,?,0,?)`,
		sess.RoundID, owner, anon, now, "playing", len(sess.State.Player.Ships))
	if err != nil {
		log.Warn().Err(err).Str("round", sess.RoundID).Msg("insert game row")
	}
}

// recordRoundEnd closes the caller's games row and bumps the account's
// stats in a best-effort transaction. A won round extends the streak, an
// abandoned one breaks it.
func (s *Server) recordRoundEnd(ctx context.Context, c caller, userID string, round finishedRound) {
	if s.db == nil {
		return
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=?, shots=?
	                                 WHERE id=? AND status='playing' AND (user_id=? OR anonymous_id=?)`,
		round.Status, time.Now().UTC().Format(time.RFC3339), round.Shots, round.ID, c.UserID, c.AnonID)
	if err != nil {
		log.Warn().Err(err).Msg("finish game")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Warn().Str("round", round.ID).Msg("no open round row for caller")
		return
	}
	if userID != "" {
		if err := bumpStats(tx, userID, round.Status == "won"); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("bump stats")
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit finish tx")
	}
}

// owner returns the signed-in user id, or a guest id from the anon cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (userID, anonID string) {
	if me := currentUser(r); me != nil {
		return me.ID, ""
	}
	return "", s.ensureAnonID(w, r)
}
