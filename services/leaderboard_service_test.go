package services

import (
	"net/http/httptest"
	"testing"
	"time"

	"prize-trainer/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaderboardBody struct {
	Entries     []storage.LeaderboardEntry `json:"entries"`
	MinGames    int                        `json:"min_games"`
	RefreshedAt time.Time                  `json:"refreshed_at"`
}

func TestLeaderboard_BuildsOnFirstRead(t *testing.T) {
	env := setupEnv(t)
	record(t, env, "u1", nil, 6, 1000)
	record(t, env, "u2", nil, 3, 1000)
	record(t, env, "u3", nil, 6, 1000)

	status, _ := env.call(t, "PUT", "/profile", "u1", fiber.Map{"display_name": "Ash"}, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = env.call(t, "PUT", "/profile", "u3", fiber.Map{"share_game_history": false}, nil)
	require.Equal(t, fiber.StatusOK, status)

	var body leaderboardBody
	status, _ = env.call(t, "GET", "/leaderboard", "u2", nil, &body)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, body.MinGames)
	assert.False(t, body.RefreshedAt.IsZero())
	require.Len(t, body.Entries, 2)

	assert.Equal(t, 1, body.Entries[0].Rank)
	assert.Equal(t, "Ash", body.Entries[0].DisplayName)
	assert.Equal(t, 1, body.Entries[0].PerfectGames)
	assert.Equal(t, 2, body.Entries[1].Rank)
	assert.Equal(t, "Player u2", body.Entries[1].DisplayName)
	assert.InDelta(t, 50.0, body.Entries[1].Accuracy, 0.001)
}

func TestLeaderboard_SnapshotUntilRefresh(t *testing.T) {
	env := setupEnv(t)
	record(t, env, "u1", nil, 4, 1000)

	var body leaderboardBody
	env.call(t, "GET", "/leaderboard", "u1", nil, &body)
	require.Len(t, body.Entries, 1)

	record(t, env, "u2", nil, 5, 1000)
	env.call(t, "GET", "/leaderboard", "u1", nil, &body)
	assert.Len(t, body.Entries, 1, "served from the cached snapshot")

	// the refresh route takes the service token, not a user token
	status, _ := env.call(t, "POST", "/admin/leaderboard/refresh", "", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	req := httptest.NewRequest("POST", "/admin/leaderboard/refresh", nil)
	req.Header.Set("X-Service-Token", "ops")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env.call(t, "GET", "/leaderboard", "u1", nil, &body)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "u2", body.Entries[0].UserID)
}

func TestLeaderboard_SchedulerRefreshesImmediately(t *testing.T) {
	env := setupEnv(t)
	record(t, env, "u1", nil, 6, 1000)

	sched, err := env.leaderboard.StartLeaderboardScheduler(time.Hour)
	require.NoError(t, err)
	defer func() { _ = sched.Shutdown() }()

	require.Eventually(t, func() bool {
		_, at := env.leaderboard.snapshot()
		return !at.IsZero()
	}, 5*time.Second, 20*time.Millisecond)

	entries, _ := env.leaderboard.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
}
