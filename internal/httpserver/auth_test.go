package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
)

func TestSignupLoginMe(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	tok := signup(t, s, "captain")

	me := decode[authUser](t, do(t, s, http.MethodGet, "/auth/me", nil, tok))
	assert.Equal(t, "captain", me.Username)
	assert.NotEmpty(t, me.ID)

	req := map[string]string{"username": "CAPTAIN", "password": "correct-horse"}
	rec := do(t, s, http.MethodPost, "/auth/login", req)
	require.Equal(t, http.StatusOK, rec.Code)
	login := cookieNamed(rec, "battleship_token")
	require.NotNil(t, login)

	r := do(t, s, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Code)

	// bearer header works as well as the cookie
	bearer := decode[authUser](t, doBearer(t, s, "/auth/me", login.Value))
	assert.Equal(t, me, bearer)
}

func TestSignup_Validation(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	signup(t, s, "admiral")

	rec := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "Admiral", "password": "correct-horse"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "ab", "password": "correct-horse"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "bosun", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	signup(t, s, "gunner")

	rec := do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "gunner", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_RejectsBadToken(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	rec := do(t, s, http.MethodGet, "/stats/me", nil, &http.Cookie{Name: "battleship_token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	rec := do(t, s, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := cookieNamed(rec, "battleship_token")
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestWinBumpsStats(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	tok := signup(t, s, "skipper")

	created := decode[newGameRes](t, do(t, s, http.MethodPost, "/game/new", nil, tok))
	hit := cellsIn(t, s, created.GameID, game.CellShip)[0]
	res := decode[fireRes](t, do(t, s, http.MethodPost, "/game/fire", fire(created.GameID, hit.X, hit.Y), tok))
	require.Equal(t, game.ModeGameOver, res.Game.Mode)

	stats := decode[map[string]any](t, do(t, s, http.MethodGet, "/stats/me", nil, tok))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])
	assert.EqualValues(t, 1, stats["streak"])

	mine := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/games/mine", nil, tok))
	require.Len(t, mine, 1)
	assert.Equal(t, "won", mine[0]["status"])
	assert.EqualValues(t, 1, mine[0]["shots"])
	assert.EqualValues(t, 1, mine[0]["ships"])
}

func TestSignup_ClaimsAnonGames(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	rec := do(t, s, http.MethodPost, "/game/new", nil)
	anon := cookieNamed(rec, anonCookieName)
	require.NotNil(t, anon)

	tok := signup(t, s, "deckhand", anon)

	mine := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/games/mine", nil, tok))
	require.Len(t, mine, 1)
	assert.Equal(t, "playing", mine[0]["status"])
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM games WHERE anonymous_id=?`, anon.Value))
}

func TestStrangerCannotFinishAccountGame(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	alice := signup(t, s, "alice")
	created, _ := newGame(t, s, alice)
	_, guest := newGame(t, s)
	bob := signup(t, s, "bob_the_bosun")

	for _, cookies := range [][]*http.Cookie{nil, {guest}, {bob}} {
		for _, p := range cellsIn(t, s, created.GameID, game.CellShip) {
			rec := do(t, s, http.MethodPost, "/game/fire", fire(created.GameID, p.X, p.Y), cookies...)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		}
	}

	assert.Equal(t, 0, countRows(t, s, `SELECT wins FROM users WHERE username='alice'`))
	assert.Equal(t, 0, countRows(t, s, `SELECT games_played FROM users WHERE username='alice'`))
	got := decode[snapshot](t, do(t, s, http.MethodGet, "/game/"+created.GameID, nil, alice))
	assert.Equal(t, game.ModePlayerTurn, got.Mode)
	assert.Empty(t, got.Marks)
}

func TestAbandonedRoundBreaksStreak(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	tok := signup(t, s, "navigator")
	created, _ := newGame(t, s, tok)

	hit := cellsIn(t, s, created.GameID, game.CellShip)[0]
	do(t, s, http.MethodPost, "/game/fire", fire(created.GameID, hit.X, hit.Y), tok)

	// resetting a finished round does not count it twice
	do(t, s, http.MethodPost, "/game/reset", map[string]string{"gameId": created.GameID}, tok)
	stats := decode[map[string]any](t, do(t, s, http.MethodGet, "/stats/me", nil, tok))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["streak"])

	// walking away from a round in play ends the streak
	miss := cellsIn(t, s, created.GameID, game.CellEmpty)[0]
	do(t, s, http.MethodPost, "/game/fire", fire(created.GameID, miss.X, miss.Y), tok)
	do(t, s, http.MethodPost, "/game/reset", map[string]string{"gameId": created.GameID}, tok)

	stats = decode[map[string]any](t, do(t, s, http.MethodGet, "/stats/me", nil, tok))
	assert.EqualValues(t, 2, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])
	assert.EqualValues(t, 0, stats["streak"])

	mine := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/games/mine", nil, tok))
	statuses := map[string]int{}
	for _, g := range mine {
		statuses[g["status"].(string)]++
	}
	assert.Equal(t, map[string]int{"won": 1, "abandoned": 1, "playing": 1}, statuses)
}

func TestGuestGameCountsAfterSignup(t *testing.T) {
	s := newTestServer(t, 3, oneShip)
	created, anon := newGame(t, s)
	tok := signup(t, s, "stowaway", anon)

	hit := cellsIn(t, s, created.GameID, game.CellShip)[0]
	rec := do(t, s, http.MethodPost, "/game/fire", fire(created.GameID, hit.X, hit.Y), tok, anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stats := decode[map[string]any](t, do(t, s, http.MethodGet, "/stats/me", nil, tok))
	assert.EqualValues(t, 1, stats["wins"])
	mine := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/games/mine", nil, tok))
	require.Len(t, mine, 1)
	assert.Equal(t, "won", mine[0]["status"])
}

func doBearer(t *testing.T, s *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}
