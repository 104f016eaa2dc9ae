// models/user_preference.go
package models

import "time"

// UserPreference holds the profile settings of one user. The row is created
// with defaults the first time the profile is read.
type UserPreference struct {
	UserID      string  `json:"user_id" gorm:"primaryKey;size:64"`
	DisplayName *string `json:"display_name" gorm:"uniqueIndex;size:64"` // nil until chosen

	PlayerName string     `json:"player_name"`
	PlayerID   string     `json:"player_id"` // Play! Pokémon id
	Birthdate  *time.Time `json:"birthdate"`
	Division   string     `json:"division"` // junior | senior | master

	ProfilePictureURL string `json:"profile_picture_url"`
	ShareGameHistory  bool   `json:"share_game_history" gorm:"not null;default:true"`

	Timestamps
}
