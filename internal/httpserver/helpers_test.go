package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/database"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/random"
	"github.com/robalobadob/battleship/internal/store"
)

// oneShip fits on any grid, so a single hit ends the game.
var oneShip = []game.ShipSpec{{Size: 1, Image: "carrier-shape.png"}}

func testConfig(size int) config.Config {
	return config.Config{
		ClientOrigin: "http://localhost:5173",
		CookieName:   "battleship_token",
		JWT:          config.JWTConfig{Secret: "test_secret", ExpiresDays: 1},
		Daily:        config.DailyConfig{Salt: "test_salt"},
		Game:         config.GameConfig{FieldSize: size},
	}
}

func newTestServer(t *testing.T, size int, ships []game.ShipSpec) *Server {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	gen := &game.Generator{Size: size, Ships: ships, Rand: random.New(42), Log: zerolog.Nop()}
	return New(store.NewMemoryStore(), db, game.NewEngine(gen), testConfig(size))
}

func do(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// newGame starts a game and returns it with the cookie that owns it: the
// guest cookie the server issued, or the first cookie passed in.
func newGame(t *testing.T, s *Server, cookies ...*http.Cookie) (newGameRes, *http.Cookie) {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	owner := cookieNamed(rec, anonCookieName)
	if len(cookies) > 0 {
		owner = cookies[0]
	}
	require.NotNil(t, owner)
	return decode[newGameRes](t, rec), owner
}

func fire(gameID string, x, y int) map[string]any {
	return map[string]any{"gameId": gameID, "x": x, "y": y}
}

// cellsIn returns the coordinates of every cell of the game in the given state.
func cellsIn(t *testing.T, s *Server, gameID string, state game.CellState) []game.Point {
	t.Helper()
	sess, err := s.store.Get(context.Background(), gameID)
	require.NoError(t, err)
	var out []game.Point
	for x, col := range sess.State.Player.Grid {
		for y, c := range col {
			if c.State == state {
				out = append(out, game.Point{X: x, Y: y})
			}
		}
	}
	return out
}

func countRows(t *testing.T, s *Server, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&n))
	return n
}

// signup registers a user and returns the auth cookie.
func signup(t *testing.T, s *Server, username string, cookies ...*http.Cookie) *http.Cookie {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": username, "password": "correct-horse"}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := cookieNamed(rec, "battleship_token")
	require.NotNil(t, tok)
	return tok
}
