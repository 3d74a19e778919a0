package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/db"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

const testWords = `
[ANIMALS:EASY]
CAT
[ANIMALS:MEDIUM]
ZEBRA
[ANIMALS:HARD]
PLATYPUS
[FRUITS:EASY]
FIG
[RANDOM:EASY]
BOX
[EXPERT]
FJORD
`

const testHints = `
[ANIMALS]
CAT: Purrs
`

func newTestServer(t *testing.T, conn *sql.DB) *Server {
	t.Helper()
	cat, err := words.Parse(strings.NewReader(testWords), strings.NewReader(testHints))
	require.NoError(t, err)
	cfg := config.Default()
	cfg.AIStepDelay = 0
	return New(cfg, store.NewMemoryStore(), cat, conn)
}

func do(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newRound(t *testing.T, h http.Handler, req newGameReq) newGameRes {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/game/new", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[newGameRes](t, rec)
}

func TestHealthAndCatalog(t *testing.T) {
	h := newTestServer(t, nil).Router()

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"live":0,"db":false}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Categories []catalogCategory `json:"categories"`
		Profile    game.Profile      `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 4)
	assert.Equal(t, "ANIMALS", body.Categories[0].Name)
	assert.Equal(t, map[game.Difficulty]int{game.DifficultyEasy: 1, game.DifficultyMedium: 1, game.DifficultyHard: 1}, body.Categories[0].Difficulties)
	assert.True(t, body.Categories[2].Unreliable, "RANDOM hints are flagged")
	assert.Equal(t, game.ProfileStreak, body.Profile)

	rec = do(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestHumanRound(t *testing.T) {
	h := newTestServer(t, nil).Router()

	res := newRound(t, h, newGameReq{Category: "animals", Difficulty: "easy"})
	assert.Equal(t, store.ModeHuman, res.Mode)
	assert.Equal(t, "_ _ _", res.Game.Pattern)
	assert.Empty(t, res.Game.Word, "word hidden while playing")
	assert.Equal(t, "ANIMALS", res.Game.Category)

	rec := do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	g := decode[guessRes](t, rec)
	assert.Equal(t, game.ResultIncorrect, g.Result)
	assert.Equal(t, 1, g.Game.WrongGuesses)

	rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: "x"})
	assert.Equal(t, game.ResultAlreadyGuessed, decode[guessRes](t, rec).Result)

	rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: "xy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, l := range []string{"c", "A", "t"} {
		rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: l})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	g = decode[guessRes](t, rec)
	assert.Equal(t, game.StateWon, g.Game.State)
	assert.Equal(t, "CAT", g.Game.Word)
	assert.NotZero(t, g.Game.FinalScore)

	rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: "z"})
	assert.Equal(t, http.StatusConflict, rec.Code, "finished rounds reject guesses")

	rec = do(t, h, http.MethodGet, "/game/"+res.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"won"`)
}

func TestRoundErrors(t *testing.T) {
	h := newTestServer(t, nil).Router()

	rec := do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: "missing", Letter: "a"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/game/new", newGameReq{Mode: "spectator"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/game/new", newGameReq{Difficulty: "legendary"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/game/new", newGameReq{Category: "FRUITS", Difficulty: "HARD"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/game/new", newGameReq{Mode: "ai_user", Word: "ab"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/game/guess", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDefaultsPickAPlayableWord(t *testing.T) {
	h := newTestServer(t, nil).Router()
	res := newRound(t, h, newGameReq{})
	assert.Equal(t, game.DifficultyMedium, res.Game.Difficulty)
	assert.Equal(t, "ANIMALS", res.Game.Category, "only ANIMALS has MEDIUM words")
	assert.Equal(t, 5, res.Game.Length)

	res = newRound(t, h, newGameReq{Difficulty: "expert", Extended: true})
	assert.Equal(t, 4, res.Game.MaxAttempts)
	assert.Equal(t, 8, res.Game.Length, "EXPERT pools the HARD words")
}

func TestHint(t *testing.T) {
	h := newTestServer(t, nil).Router()
	res := newRound(t, h, newGameReq{Category: "ANIMALS", Difficulty: "EASY"})

	rec := do(t, h, http.MethodPost, "/game/hint", roundReq{GameID: res.GameID})
	assert.Equal(t, http.StatusConflict, rec.Code, "no points to pay for a hint yet")
	assert.Contains(t, rec.Body.String(), "hint")

	ai := newRound(t, h, newGameReq{Mode: "ai_user", Word: "zebra"})
	rec = do(t, h, http.MethodPost, "/game/hint", roundReq{GameID: ai.GameID})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAIRounds(t *testing.T) {
	h := newTestServer(t, nil).Router()

	t.Run("dictionary step then play", func(t *testing.T) {
		res := newRound(t, h, newGameReq{Mode: "ai_dictionary", Category: "ANIMALS", Difficulty: "EASY"})
		assert.Equal(t, store.ModeAIDictionary, res.Mode)

		rec := do(t, h, http.MethodPost, "/game/ai/step", roundReq{GameID: res.GameID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		step := decode[aiStepRes](t, rec)
		assert.Equal(t, "A", step.Letter, "A, B, C, F, G, I, O, T, X all tie; A comes first")
		assert.Equal(t, game.ResultCorrect, step.Result)

		rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: "c"})
		assert.Equal(t, http.StatusConflict, rec.Code, "people cannot guess for the AI")

		rec = do(t, h, http.MethodPost, "/game/ai/play", roundReq{GameID: res.GameID})
		require.Equal(t, http.StatusOK, rec.Code)
		play := decode[aiPlayRes](t, rec)
		assert.Equal(t, game.StateWon, play.Outcome.State)
		assert.Equal(t, "CAT", play.Game.Word)

		rec = do(t, h, http.MethodPost, "/game/ai/step", roundReq{GameID: res.GameID})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("user word outside the catalog", func(t *testing.T) {
		res := newRound(t, h, newGameReq{Mode: "ai_user", Word: " quiz "})
		assert.Equal(t, 4, res.Game.Length)

		rec := do(t, h, http.MethodPost, "/game/ai/play", roundReq{GameID: res.GameID})
		require.Equal(t, http.StatusOK, rec.Code)
		play := decode[aiPlayRes](t, rec)
		assert.True(t, play.Game.State.Terminal())
		assert.False(t, play.Outcome.GaveUp)
		assert.Equal(t, "QUIZ", play.Game.Word)
	})

	t.Run("human rounds have no solver", func(t *testing.T) {
		res := newRound(t, h, newGameReq{Category: "FRUITS", Difficulty: "EASY"})
		rec := do(t, h, http.MethodPost, "/game/ai/step", roundReq{GameID: res.GameID})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestWatchStreamsUntilDone(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, nil).Router())
	t.Cleanup(srv.Close)

	rec := do(t, srv.Config.Handler, http.MethodPost, "/game/new", newGameReq{Mode: "ai_user", Word: "cab"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[newGameRes](t, rec).GameID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + id + "/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var frames []watchFrame
	for {
		var f watchFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Type == "done" || f.Type == "error" {
			break
		}
		require.Less(t, len(frames), 40, "stream never finished")
	}

	require.GreaterOrEqual(t, len(frames), 3)
	assert.Equal(t, "start", frames[0].Type)
	assert.Equal(t, game.StateInProgress, frames[0].Game.State)
	for _, f := range frames[1 : len(frames)-1] {
		assert.Equal(t, "step", f.Type)
		assert.Len(t, f.Letter, 1)
	}
	last := frames[len(frames)-1]
	assert.Equal(t, "done", last.Type)
	assert.True(t, last.Game.State.Terminal())
	assert.Equal(t, "CAB", last.Game.Word)

	rec = do(t, srv.Config.Handler, http.MethodGet, "/game/"+id, nil)
	assert.Contains(t, rec.Body.String(), `"word":"CAB"`)
}

func TestWatchRejectsHumanRounds(t *testing.T) {
	h := newTestServer(t, nil).Router()
	res := newRound(t, h, newGameReq{Category: "ANIMALS", Difficulty: "EASY"})
	rec := do(t, h, http.MethodGet, "/game/"+res.GameID+"/watch", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/game/unknown/watch", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDailyWithoutDatabase(t *testing.T) {
	h := newTestServer(t, nil).Router()

	rec := do(t, h, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[dailyNewRes](t, rec)
	require.NotEmpty(t, first.GameID)
	require.NotNil(t, first.Game)
	assert.False(t, first.Played)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "guests get an anonymous cookie")

	rec = do(t, h, http.MethodPost, "/daily/new", nil, cookies...)
	again := decode[dailyNewRes](t, rec)
	assert.Equal(t, first.GameID, again.GameID, "same guest, same day, same round")

	rec = do(t, h, http.MethodPost, "/daily/new", nil)
	other := decode[dailyNewRes](t, rec)
	assert.NotEqual(t, first.GameID, other.GameID)
	assert.Equal(t, first.Game.Length, other.Game.Length, "everyone gets the same word")

	rec = do(t, h, http.MethodPost, "/daily/guess", roundReq{GameID: first.GameID, Letter: "e"}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/daily/guess", roundReq{GameID: first.GameID, Letter: "e"})
	assert.Equal(t, http.StatusConflict, rec.Code, "a different guest cannot play this round")

	rec = do(t, h, http.MethodGet, "/daily/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	assert.Empty(t, lb.Top)
	assert.Equal(t, first.Date, lb.Date)
}

func TestDailyRoundsStayOnDailyRoutes(t *testing.T) {
	h := newTestServer(t, nil).Router()
	rec := do(t, h, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[dailyNewRes](t, rec)

	rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: first.GameID, Letter: "e"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "daily_round")

	rec = do(t, h, http.MethodPost, "/game/hint", roundReq{GameID: first.GameID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "daily_round")

	rec = do(t, h, http.MethodGet, "/game/"+first.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Game game.Snapshot `json:"game"`
	}](t, rec)
	assert.Empty(t, got.Game.Guessed, "nothing was applied")
}

func TestSweepEvictsStaleRounds(t *testing.T) {
	srv := newTestServer(t, nil)
	h := srv.Router()
	ctx := context.Background()
	start := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) { srv.now = func() time.Time { return start.Add(d) } }
	at(0)

	won := newRound(t, h, newGameReq{Category: "ANIMALS", Difficulty: "EASY"})
	for _, l := range []string{"c", "a", "t"} {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: won.GameID, Letter: l}).Code)
	}
	idle := newRound(t, h, newGameReq{Category: "FRUITS", Difficulty: "EASY"})
	rec := do(t, h, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	today := decode[dailyNewRes](t, rec)

	at(time.Hour)
	fresh := newRound(t, h, newGameReq{Category: "ANIMALS", Difficulty: "EASY"})
	assert.Zero(t, srv.sweep(ctx), "nothing is older than the TTL yet")
	require.Equal(t, 4, srv.store.Len())

	at(2*time.Hour + time.Minute)
	assert.Equal(t, 2, srv.sweep(ctx), "the finished round and the idle one")
	for _, id := range []string{won.GameID, idle.GameID} {
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/game/"+id, nil).Code)
	}
	for _, id := range []string{fresh.GameID, today.GameID} {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/game/"+id, nil).Code)
	}
	assert.Len(t, srv.dailies.sessions, 1)

	at(24 * time.Hour)
	assert.Equal(t, 2, srv.sweep(ctx), "yesterday's daily round and the now idle one")
	assert.Zero(t, srv.store.Len())
	assert.Empty(t, srv.dailies.sessions, "past dates are forgotten")
}

func TestAuthNeedsDatabase(t *testing.T) {
	h := newTestServer(t, nil).Router()
	rec := do(t, h, http.MethodPost, "/auth/signup", signupReq{Username: "ada", Password: "password1"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = do(t, h, http.MethodGet, "/games/mine", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "server.db"))
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 driver needs cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, assets.Migrations()))
	return conn
}

func TestAccountsAndHistory(t *testing.T) {
	conn := openDB(t)
	h := newTestServer(t, conn).Router()

	// A guest plays first; the round is claimed on signup.
	guest := do(t, h, http.MethodPost, "/game/new", newGameReq{Category: "ANIMALS", Difficulty: "EASY"})
	require.Equal(t, http.StatusOK, guest.Code)
	anon := guest.Result().Cookies()
	gid := decode[newGameRes](t, guest).GameID
	for _, l := range []string{"c", "a", "t"} {
		rec := do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: gid, Letter: l}, anon...)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/auth/signup", signupReq{Username: "ada_l", Password: "correct horse"}, anon...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var auth []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "hangman_token" {
			auth = append(auth, c)
		}
	}
	require.Len(t, auth, 1)

	rec = do(t, h, http.MethodPost, "/auth/signup", signupReq{Username: "ADA_L", Password: "correct horse"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, h, http.MethodPost, "/auth/signup", signupReq{Username: "x", Password: "correct horse"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/auth/login", loginReq{Username: "ada_l", Password: "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h, http.MethodPost, "/auth/login", loginReq{Username: "ada_l", Password: "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/auth/me", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ada_l"`)
	rec = do(t, h, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed-in round: lose it to move the stats.
	res := decode[newGameRes](t, do(t, h, http.MethodPost, "/game/new", newGameReq{Category: "FRUITS", Difficulty: "EASY"}, auth...))
	for _, l := range []string{"b", "c", "d", "e", "h", "j", "k"} {
		rec = do(t, h, http.MethodPost, "/game/guess", roundReq{GameID: res.GameID, Letter: l}, auth...)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, game.StateLost, decode[guessRes](t, rec).Game.State)

	rec = do(t, h, http.MethodGet, "/games/mine", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]roundRow](t, rec)
	require.Len(t, rows, 2, "claimed guest round plus the signed-in one")
	byID := map[string]roundRow{rows[0].ID: rows[0], rows[1].ID: rows[1]}
	assert.Equal(t, "won", byID[gid].Status)
	assert.Equal(t, 3, byID[gid].Guesses)
	assert.Equal(t, "lost", byID[res.GameID].Status)
	assert.Equal(t, 7, byID[res.GameID].WrongGuesses)

	rec = do(t, h, http.MethodGet, "/stats/me", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[struct {
		GamesPlayed int `json:"gamesPlayed"`
		Wins        int `json:"wins"`
	}](t, rec)
	assert.Equal(t, 1, stats.GamesPlayed, "only rounds played while signed in count")
	assert.Zero(t, stats.Wins)

	rec = do(t, h, http.MethodPost, "/auth/logout", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDailyLeaderboardWithDatabase(t *testing.T) {
	conn := openDB(t)
	h := newTestServer(t, conn).Router()

	rec := do(t, h, http.MethodPost, "/daily/new", nil)
	first := decode[dailyNewRes](t, rec)
	cookies := rec.Result().Cookies()

	// Guess the whole alphabet; the round ends one way or the other.
	var g guessRes
	for _, l := range game.Alphabet {
		rec = do(t, h, http.MethodPost, "/daily/guess", roundReq{GameID: first.GameID, Letter: string(l)}, cookies...)
		if rec.Code != http.StatusOK {
			break
		}
		g = decode[guessRes](t, rec)
		if g.Game.State.Terminal() {
			break
		}
	}
	require.True(t, g.Game.State.Terminal())

	rec = do(t, h, http.MethodPost, "/daily/new", nil, cookies...)
	assert.True(t, decode[dailyNewRes](t, rec).Played)

	rec = do(t, h, http.MethodGet, "/daily/leaderboard", nil)
	lb := decode[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, g.Game.FinalScore, lb.Top[0].FinalScore)
	assert.Equal(t, g.Game.State == game.StateWon, lb.Top[0].Won)
}
