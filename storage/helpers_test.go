package storage

import (
	"path/filepath"
	"testing"
	"time"

	"prize-trainer/game"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated database in a temporary file.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock() func() time.Time {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func result(t *testing.T, correct int) *game.ScoreResult {
	t.Helper()
	prizes := []string{"A", "B", "C", "D", "E", "F"}
	guesses := append([]string(nil), prizes...)
	for i := correct; i < len(guesses); i++ {
		guesses[i] = "X"
	}
	r, err := game.ScoreGuesses(guesses, prizes, int64(1000*(correct+1)))
	require.NoError(t, err)
	require.Equal(t, correct, r.CorrectCount)
	return r
}
