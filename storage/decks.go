package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prize-trainer/game"
	"prize-trainer/models"
	"prize-trainer/ports"

	"gorm.io/gorm"
)

// DeckStore is the gorm DeckRepository.
type DeckStore struct {
	DB *gorm.DB
}

var _ ports.DeckRepository = (*DeckStore)(nil)

func NewDeckStore(db *gorm.DB) *DeckStore {
	return &DeckStore{DB: db}
}

func (s *DeckStore) CreateDeck(ctx context.Context, deck *models.Decklist) error {
	if err := s.DB.WithContext(ctx).Create(deck).Error; err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	return nil
}

func (s *DeckStore) GetDeck(ctx context.Context, userID, deckID string) (*models.Decklist, error) {
	var deck models.Decklist
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", deckID, userID).
		First(&deck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrDeckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return &deck, nil
}

// ListDecks filters in Go so accent folding behaves the same on every
// database.
func (s *DeckStore) ListDecks(ctx context.Context, userID, query string) ([]models.Decklist, error) {
	var decks []models.Decklist
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&decks).Error
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}

	needle := game.FoldName(query)
	if needle == "" {
		return decks, nil
	}
	filtered := decks[:0]
	for _, d := range decks {
		if strings.Contains(game.FoldName(d.Name), needle) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func (s *DeckStore) UpdateDeck(ctx context.Context, deck *models.Decklist) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Decklist{}).
		Where("id = ? AND user_id = ?", deck.ID, deck.UserID).
		Updates(map[string]interface{}{
			"name":       deck.Name,
			"slug":       deck.Slug,
			"cards":      deck.Cards,
			"card_count": deck.CardCount,
		})
	if res.Error != nil {
		return fmt.Errorf("update deck: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrDeckNotFound
	}
	return nil
}

// DeleteDeck soft-deletes, so history keeps the deck name.
func (s *DeckStore) DeleteDeck(ctx context.Context, userID, deckID string) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", deckID, userID).
		Delete(&models.Decklist{})
	if res.Error != nil {
		return fmt.Errorf("delete deck: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrDeckNotFound
	}
	return nil
}
