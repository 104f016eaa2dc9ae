// models/decklist.go
package models

// Decklist is a saved 60-card list in "<qty> <name>" text form.
type Decklist struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	UserID    string `json:"user_id" gorm:"index;not null;size:64"`
	Name      string `json:"name" gorm:"not null"`
	Slug      string `json:"slug"`
	Cards     string `json:"cards" gorm:"type:text;not null"` // raw decklist text
	CardCount int    `json:"card_count"`                      // sum of accepted quantities

	Timestamps
}
