// models/game_session.go
package models

import "time"

// GameSession is one submitted round.
type GameSession struct {
	ID     string  `json:"id" gorm:"primaryKey;size:36"`
	UserID string  `json:"user_id" gorm:"index;not null;size:64"`
	DeckID *string `json:"deck_id" gorm:"index;size:36"` // nil for rounds played from pasted text that was never saved

	Guesses      []string `json:"guesses" gorm:"serializer:json;type:text"`
	ActualPrizes []string `json:"actual_prizes" gorm:"serializer:json;type:text"`
	Marks        []bool   `json:"marks" gorm:"serializer:json;type:text"`

	CorrectCount    int   `json:"correct_count"`
	TotalPrizes     int   `json:"total_prizes"`
	TimeSpentMillis int64 `json:"time_spent_ms"`

	PlayedAt time.Time `json:"played_at" gorm:"index"`

	Deck *Decklist `json:"deck,omitempty" gorm:"foreignKey:DeckID"`

	Timestamps
}

// Accuracy is the share of prizes named correctly, in percent.
func (s GameSession) Accuracy() float64 {
	if s.TotalPrizes == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.TotalPrizes) * 100
}
