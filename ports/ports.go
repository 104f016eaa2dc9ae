// Package ports declares the collaborators a play-through depends on. The
// service wires concrete adapters in main; tests substitute mocks.
package ports

import (
	"context"
	"errors"
	"time"

	"prize-trainer/game"
	"prize-trainer/models"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrDeckNotFound    = errors.New("deck not found")
)

// Session is a verified user identity.
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// SessionProvider verifies access tokens issued elsewhere.
type SessionProvider interface {
	// Authenticate returns the session behind token, or an error wrapping
	// ErrUnauthenticated when the token is missing, malformed or expired.
	Authenticate(ctx context.Context, token string) (*Session, error)
}

// DeckRepository persists decklists. Every call is scoped to the owning user;
// decks of other users behave as if they did not exist.
type DeckRepository interface {
	CreateDeck(ctx context.Context, deck *models.Decklist) error
	// GetDeck returns ErrDeckNotFound when the deck is missing or not owned.
	GetDeck(ctx context.Context, userID, deckID string) (*models.Decklist, error)
	// ListDecks returns the user's decks newest first. A non-empty query
	// filters by name, ignoring case and accents.
	ListDecks(ctx context.Context, userID, query string) ([]models.Decklist, error)
	UpdateDeck(ctx context.Context, deck *models.Decklist) error
	DeleteDeck(ctx context.Context, userID, deckID string) error
}

// ResultRecorder stores the outcome of a submitted round. It is called once
// per submission and never retried.
type ResultRecorder interface {
	RecordResult(ctx context.Context, userID string, deckID *string, result *game.ScoreResult) (*models.GameSession, error)
}

// CardImage is display metadata for a card.
type CardImage struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SmallURL string `json:"small_url"`
	LargeURL string `json:"large_url"`
}

// CardImageLookup finds artwork for a card name. A nil image with a nil error
// means no card matched.
type CardImageLookup interface {
	LookupCardImage(ctx context.Context, name string) (*CardImage, error)
}
