// services/history_service.go
package services

import (
	"fmt"
	"time"

	"prize-trainer/middleware"
	"prize-trainer/models"
	"prize-trainer/storage"

	"github.com/gofiber/fiber/v2"
)

const maxPageSize = 100

type HistoryService struct {
	Sessions *storage.SessionStore
}

func NewHistoryService(sessions *storage.SessionStore) *HistoryService {
	return &HistoryService{Sessions: sessions}
}

type HistoryItem struct {
	ID              string    `json:"id"`
	PlayedAt        time.Time `json:"played_at"`
	DeckID          *string   `json:"deck_id"`
	DeckName        string    `json:"deck_name"`
	CorrectCount    int       `json:"correct_count"`
	TotalPrizes     int       `json:"total_prizes"`
	Accuracy        float64   `json:"accuracy"`
	TimeSpentMillis int64     `json:"time_spent_ms"`
	TimeSpent       string    `json:"time_spent"`
}

type HistoryDetail struct {
	HistoryItem
	Guesses      []string `json:"guesses"`
	ActualPrizes []string `json:"actual_prizes"`
	Marks        []bool   `json:"marks"`
}

func historyItem(s *models.GameSession) HistoryItem {
	name := storage.UnsavedDeckName
	if s.Deck != nil {
		name = s.Deck.Name
	}
	return HistoryItem{
		ID:              s.ID,
		PlayedAt:        s.PlayedAt,
		DeckID:          s.DeckID,
		DeckName:        name,
		CorrectCount:    s.CorrectCount,
		TotalPrizes:     s.TotalPrizes,
		Accuracy:        s.Accuracy(),
		TimeSpentMillis: s.TimeSpentMillis,
		TimeSpent:       FormatDuration(s.TimeSpentMillis),
	}
}

// FormatDuration renders milliseconds as "45s" or "2m 05s".
func FormatDuration(ms int64) string {
	secs := ms / 1000
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

func (s *HistoryService) ListHistory(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = 20
	}

	sessions, total, err := s.Sessions.ListSessions(c.UserContext(), middleware.UserID(c), page, size)
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]HistoryItem, 0, len(sessions))
	for i := range sessions {
		items = append(items, historyItem(&sessions[i]))
	}
	return c.JSON(fiber.Map{
		"sessions": items,
		"page":     page,
		"size":     size,
		"total":    total,
	})
}

func (s *HistoryService) GetHistoryEntry(c *fiber.Ctx) error {
	session, err := s.Sessions.GetSession(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(HistoryDetail{
		HistoryItem:  historyItem(session),
		Guesses:      session.Guesses,
		ActualPrizes: session.ActualPrizes,
		Marks:        session.Marks,
	})
}

// GetAnalytics aggregates every session of the caller.
func (s *HistoryService) GetAnalytics(c *fiber.Ctx) error {
	sessions, err := s.Sessions.AllSessions(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(storage.BuildAnalytics(sessions))
}
