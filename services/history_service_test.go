package services

import (
	"context"
	"testing"
	"time"

	"prize-trainer/game"
	"prize-trainer/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record stores a finished round with the given score directly.
func record(t *testing.T, env *testEnv, user string, deckID *string, correct int, ms int64) string {
	t.Helper()
	prizes := []string{"Iono", "Arven", "Switch", "Super Rod", "Rare Candy", "Mew ex"}
	guesses := append([]string(nil), prizes...)
	for i := correct; i < len(guesses); i++ {
		guesses[i] = "Nest Ball"
	}
	res, err := game.ScoreGuesses(guesses, prizes, ms)
	require.NoError(t, err)

	store := storage.NewSessionStore(env.db)
	store.Now = func() time.Time { return time.Now().Add(time.Duration(correct) * time.Second) }
	s, err := store.RecordResult(context.Background(), user, deckID, res)
	require.NoError(t, err)
	return s.ID
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:       "0s",
		999:     "0s",
		45000:   "45s",
		59999:   "59s",
		60000:   "1m 00s",
		125000:  "2m 05s",
		3600000: "60m 00s",
	}
	for ms, want := range cases {
		assert.Equal(t, want, FormatDuration(ms), ms)
	}
}

func TestHistory_ListAndDetail(t *testing.T) {
	env := setupEnv(t)
	deck := createDeck(t, env, "u1", "Pikachu Box", sampleDecklist)
	for i := 0; i < 5; i++ {
		record(t, env, "u1", &deck.ID, i, 65000)
	}
	record(t, env, "u2", nil, 6, 1000)

	var page struct {
		Sessions []HistoryItem `json:"sessions"`
		Page     int           `json:"page"`
		Size     int           `json:"size"`
		Total    int           `json:"total"`
	}
	status, _ := env.call(t, "GET", "/history?page=2&size=2", "u1", nil, &page)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	require.Len(t, page.Sessions, 2)
	// newest first: scores 4,3 | 2,1 | 0
	assert.Equal(t, 2, page.Sessions[0].CorrectCount)
	assert.Equal(t, 1, page.Sessions[1].CorrectCount)
	assert.Equal(t, "1m 05s", page.Sessions[0].TimeSpent)
	assert.Equal(t, "Pikachu Box", page.Sessions[0].DeckName)

	status, _ = env.call(t, "GET", "/history?size=1000", "u1", nil, &page)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 20, page.Size)
	assert.Len(t, page.Sessions, 5)

	// deleting the deck keeps its name in history
	status, _ = env.call(t, "DELETE", "/decks/"+deck.ID, "u1", nil, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	id := page.Sessions[0].ID
	var detail HistoryDetail
	status, _ = env.call(t, "GET", "/history/"+id, "u1", nil, &detail)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Pikachu Box", detail.DeckName)
	assert.Equal(t, 4, detail.CorrectCount)
	assert.Len(t, detail.Guesses, game.PrizeCount)
	assert.Len(t, detail.ActualPrizes, game.PrizeCount)
	assert.Equal(t, []bool{true, true, true, true, false, false}, detail.Marks)

	var e errorBody
	status, _ = env.call(t, "GET", "/history/"+id, "u2", nil, &e)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "session_not_found", e.Error)
}

func TestHistory_UnsavedDeckName(t *testing.T) {
	env := setupEnv(t)
	record(t, env, "u1", nil, 3, 1000)

	var page struct {
		Sessions []HistoryItem `json:"sessions"`
	}
	status, _ := env.call(t, "GET", "/history", "u1", nil, &page)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, page.Sessions, 1)
	assert.Equal(t, storage.UnsavedDeckName, page.Sessions[0].DeckName)
	assert.InDelta(t, 50.0, page.Sessions[0].Accuracy, 0.001)
}

func TestHistory_Analytics(t *testing.T) {
	env := setupEnv(t)
	deck := createDeck(t, env, "u1", "Pikachu Box", sampleDecklist)
	record(t, env, "u1", &deck.ID, 6, 30000)
	record(t, env, "u1", &deck.ID, 3, 60000)
	record(t, env, "u1", nil, 0, 90000)

	var a storage.Analytics
	status, raw := env.call(t, "GET", "/analytics", "u1", nil, &a)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, 3, a.Overall.Games)
	assert.Equal(t, 1, a.Overall.PerfectGames)
	assert.Equal(t, 6, a.Overall.BestScore)
	assert.InDelta(t, 50.0, a.Overall.AverageAccuracy, 0.1)

	var empty storage.Analytics
	status, _ = env.call(t, "GET", "/analytics", "u2", nil, &empty)
	require.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, empty.Overall.Games)
}
