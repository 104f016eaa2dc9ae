package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"prize-trainer/models"

	"gorm.io/gorm"
)

var ErrDisplayNameTaken = errors.New("display name is already taken")

// PreferenceStore reads and writes profile settings.
type PreferenceStore struct {
	DB *gorm.DB
}

func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{DB: db}
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// unchanged; an empty DisplayName clears it.
type ProfileUpdate struct {
	DisplayName      *string
	PlayerName       *string
	PlayerID         *string
	Birthdate        *time.Time
	Division         *string
	ShareGameHistory *bool
}

// Get returns the user's preferences, creating the default row on first use.
func (s *PreferenceStore) Get(ctx context.Context, userID string) (*models.UserPreference, error) {
	db := s.DB.WithContext(ctx)

	var pref models.UserPreference
	err := db.Where("user_id = ?", userID).First(&pref).Error
	if err == nil {
		return &pref, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	pref = models.UserPreference{UserID: userID, ShareGameHistory: true}
	if err := db.Create(&pref).Error; err != nil {
		// a concurrent request may have created it first
		var existing models.UserPreference
		if db.Where("user_id = ?", userID).First(&existing).Error == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create preferences: %w", err)
	}
	return &pref, nil
}

// DisplayNameAvailable reports whether name is free for userID. Names compare
// case-insensitively; a blank name is never available and the user's own
// name always is.
func (s *PreferenceStore) DisplayNameAvailable(ctx context.Context, userID, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.UserPreference{}).
		Where("LOWER(display_name) = ? AND user_id <> ?", strings.ToLower(name), userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check display name: %w", err)
	}
	return count == 0, nil
}

func (s *PreferenceStore) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.UserPreference, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			changes["display_name"] = nil
		} else {
			ok, err := s.DisplayNameAvailable(ctx, userID, name)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrDisplayNameTaken
			}
			changes["display_name"] = name
		}
	}
	if upd.PlayerName != nil {
		changes["player_name"] = strings.TrimSpace(*upd.PlayerName)
	}
	if upd.PlayerID != nil {
		changes["player_id"] = strings.TrimSpace(*upd.PlayerID)
	}
	if upd.Birthdate != nil {
		changes["birthdate"] = *upd.Birthdate
	}
	if upd.Division != nil {
		changes["division"] = *upd.Division
	}
	if upd.ShareGameHistory != nil {
		changes["share_game_history"] = *upd.ShareGameHistory
	}

	if len(changes) > 0 {
		err := s.DB.WithContext(ctx).
			Model(&models.UserPreference{}).
			Where("user_id = ?", userID).
			Updates(changes).Error
		if err != nil {
			return nil, fmt.Errorf("update preferences: %w", err)
		}
	}
	return s.Get(ctx, userID)
}

func (s *PreferenceStore) SetProfilePicture(ctx context.Context, userID, url string) (*models.UserPreference, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	err := s.DB.WithContext(ctx).
		Model(&models.UserPreference{}).
		Where("user_id = ?", userID).
		Update("profile_picture_url", url).Error
	if err != nil {
		return nil, fmt.Errorf("set profile picture: %w", err)
	}
	return s.Get(ctx, userID)
}
