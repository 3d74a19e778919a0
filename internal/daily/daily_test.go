package daily

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/db"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2024, 3, 16, 5, 0, 0, 0, loc) // 2024-03-15 19:00 UTC
	assert.Equal(t, "2024-03-15", DateKey(ts))
}

func TestDeckDealsOneWordPerDay(t *testing.T) {
	words := make([]string, 1000)
	for i := range words {
		words[i] = fmt.Sprintf("W%d", i)
	}
	d := NewDeck("salt", words)
	day := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	p, ok := d.For(day)
	require.True(t, ok)
	assert.Equal(t, Puzzle{Date: "2024-03-15", Index: 944, Word: "W944"}, p)

	later, _ := d.For(day.Add(10 * time.Hour))
	assert.Equal(t, p, later, "same day, same word")

	next, _ := d.For(day.AddDate(0, 0, 1))
	assert.Equal(t, 129, next.Index)

	other, _ := NewDeck("pepper", words).For(day)
	assert.Equal(t, 204, other.Index, "the salt changes the sequence")
}

func TestDeckSmallAndEmpty(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	list := []string{"CAT", "DOG", "EMU"}
	d := NewDeck("salt", list)
	list[1] = "YAK"

	p, ok := d.For(day)
	require.True(t, ok)
	assert.Equal(t, Puzzle{Date: "2024-03-15", Index: 1, Word: "DOG"}, p, "the deck keeps its own copy")
	assert.Equal(t, 3, d.Len())

	p, ok = NewDeck("salt", nil).For(day)
	assert.False(t, ok)
	assert.Equal(t, Puzzle{Date: "2024-03-15"}, p)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 driver needs cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, assets.Migrations()))
	return conn
}

func TestStoreLeaderboard(t *testing.T) {
	ctx := context.Background()
	conn := openDB(t)
	st := NewStore(conn)

	_, err := conn.Exec(`INSERT INTO players(id, username, password_hash, created_at) VALUES ('p1', 'ada', 'x', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	results := []Result{
		{PlayerID: "p1", Date: "2024-03-15", WordIndex: 4, Won: true, WrongGuesses: 1, FinalScore: 300, ElapsedMs: 9000},
		{PlayerID: "anon-a", Date: "2024-03-15", WordIndex: 4, Won: true, WrongGuesses: 0, FinalScore: 300, ElapsedMs: 4000},
		{PlayerID: "anon-b", Date: "2024-03-15", WordIndex: 4, Won: false, WrongGuesses: 7, FinalScore: -40, ElapsedMs: 1000},
		{PlayerID: "anon-c", Date: "2024-03-14", WordIndex: 2, Won: true, FinalScore: 999, ElapsedMs: 1},
	}
	for _, r := range results {
		require.NoError(t, st.InsertResult(ctx, r))
	}
	// duplicate is ignored
	require.NoError(t, st.InsertResult(ctx, Result{PlayerID: "p1", Date: "2024-03-15", FinalScore: 5000}))

	played, err := st.AlreadyPlayed(ctx, "p1", "2024-03-15")
	require.NoError(t, err)
	assert.True(t, played)
	played, err = st.AlreadyPlayed(ctx, "p1", "2024-03-14")
	require.NoError(t, err)
	assert.False(t, played)

	rows, err := st.Leaderboard(ctx, "2024-03-15", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "anon-a", rows[0].PlayerID, "equal score, faster wins")
	assert.Equal(t, "p1", rows[1].PlayerID)
	assert.Equal(t, "ada", rows[1].Username)
	assert.Equal(t, 300, rows[1].FinalScore)
	assert.Equal(t, "anon-b", rows[2].PlayerID)
	assert.False(t, rows[2].Won)

	rows, err = st.Leaderboard(ctx, "2024-03-15", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
