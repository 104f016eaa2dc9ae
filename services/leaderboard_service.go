// services/leaderboard_service.go
package services

import (
	"context"
	"log"
	"sync"
	"time"

	"prize-trainer/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeaderboardService serves a cached leaderboard snapshot, rebuilt by the
// scheduler or on demand by an operator.
type LeaderboardService struct {
	DB       *gorm.DB
	MinGames int
	Limit    int

	mu          sync.RWMutex
	entries     []storage.LeaderboardEntry
	refreshedAt time.Time
}

func NewLeaderboardService(db *gorm.DB, minGames, limit int) *LeaderboardService {
	return &LeaderboardService{DB: db, MinGames: minGames, Limit: limit}
}

// Refresh rebuilds the snapshot. On error the previous snapshot is kept.
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	entries, err := storage.Leaderboard(ctx, s.DB, s.MinGames, s.Limit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.refreshedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

func (s *LeaderboardService) snapshot() ([]storage.LeaderboardEntry, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries, s.refreshedAt
}

// GetLeaderboard returns the snapshot, building it first if none exists yet.
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	entries, at := s.snapshot()
	if at.IsZero() {
		if err := s.Refresh(c.UserContext()); err != nil {
			return errorResponse(c, err)
		}
		entries, at = s.snapshot()
	}
	if entries == nil {
		entries = []storage.LeaderboardEntry{}
	}

	return c.JSON(fiber.Map{
		"entries":      entries,
		"min_games":    s.MinGames,
		"refreshed_at": at,
	})
}

func (s *LeaderboardService) RefreshLeaderboard(c *fiber.Ctx) error {
	if err := s.Refresh(c.UserContext()); err != nil {
		log.Printf("❌ [SCHEDULER] manual leaderboard refresh failed: %v", err)
		return errorResponse(c, err)
	}
	entries, at := s.snapshot()
	log.Printf("✅ [SCHEDULER] leaderboard refreshed on request (%d entries)", len(entries))
	return c.JSON(fiber.Map{"entries": len(entries), "refreshed_at": at})
}
