package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RecordAndRead(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	decks := NewDeckStore(db)
	sessions := NewSessionStore(db)
	sessions.Now = fixedClock()

	deck := newDeck("u1", "Lugia")
	require.NoError(t, decks.CreateDeck(ctx, deck))

	first, err := sessions.RecordResult(ctx, "u1", &deck.ID, result(t, 4))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	_, err = sessions.RecordResult(ctx, "u1", nil, result(t, 6))
	require.NoError(t, err)
	_, err = sessions.RecordResult(ctx, "u2", nil, result(t, 1))
	require.NoError(t, err)

	// deleted decks still name their sessions
	require.NoError(t, decks.DeleteDeck(ctx, "u1", deck.ID))

	page, total, err := sessions.ListSessions(ctx, "u1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, 6, page[0].CorrectCount, "newest first")
	assert.Nil(t, page[0].Deck)

	page, _, err = sessions.ListSessions(ctx, "u1", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.NotNil(t, page[0].Deck)
	assert.Equal(t, "Lugia", page[0].Deck.Name)

	got, err := sessions.GetSession(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "X", "X"}, got.Guesses)
	assert.Equal(t, []bool{true, true, true, true, false, false}, got.Marks)
	assert.Equal(t, int64(5000), got.TimeSpentMillis)

	_, err = sessions.GetSession(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	all, err := sessions.AllSessions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "oldest first")
}

func TestSessionStore_RecordNil(t *testing.T) {
	_, err := NewSessionStore(setupTestDB(t)).RecordResult(context.Background(), "u1", nil, nil)
	assert.Error(t, err)
}
