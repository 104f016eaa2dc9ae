package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prize-trainer/game"
	"prize-trainer/models"
	"prize-trainer/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("game session not found")

// SessionStore records and reads submitted rounds.
type SessionStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

var _ ports.ResultRecorder = (*SessionStore)(nil)

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{DB: db, Now: time.Now}
}

func (s *SessionStore) RecordResult(ctx context.Context, userID string, deckID *string, result *game.ScoreResult) (*models.GameSession, error) {
	if result == nil {
		return nil, errors.New("record result: nil result")
	}

	session := &models.GameSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		DeckID:          deckID,
		Guesses:         result.Guesses,
		ActualPrizes:    result.ActualPrizes,
		Marks:           result.Marks,
		CorrectCount:    result.CorrectCount,
		TotalPrizes:     result.TotalPrizes,
		TimeSpentMillis: result.TimeSpentMillis,
		PlayedAt:        s.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("record result: %w", err)
	}
	return session, nil
}

// withDeck preloads the deck including soft-deleted ones.
func withDeck(db *gorm.DB) *gorm.DB {
	return db.Preload("Deck", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() })
}

// ListSessions returns one page of the user's sessions, newest first, and
// the total number of sessions.
func (s *SessionStore) ListSessions(ctx context.Context, userID string, page, size int) ([]models.GameSession, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	db := s.DB.WithContext(ctx)
	var total int64
	if err := db.Model(&models.GameSession{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	var sessions []models.GameSession
	err := withDeck(db).
		Where("user_id = ?", userID).
		Order("played_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, total, nil
}

func (s *SessionStore) GetSession(ctx context.Context, userID, id string) (*models.GameSession, error) {
	var session models.GameSession
	err := withDeck(s.DB.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// AllSessions returns every session of the user, oldest first.
func (s *SessionStore) AllSessions(ctx context.Context, userID string) ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := withDeck(s.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("played_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return sessions, nil
}
