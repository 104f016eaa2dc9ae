package storage

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	UserID       string  `json:"user_id"`
	DisplayName  string  `json:"display_name"`
	Games        int     `json:"games"`
	Correct      int     `json:"correct"`
	TotalPrizes  int     `json:"total_prizes"`
	PerfectGames int     `json:"perfect_games"`
	BestScore    int     `json:"best_score"`
	Accuracy     float64 `json:"accuracy"`
}

type leaderboardRow struct {
	UserID       string
	DisplayName  *string
	Games        int
	Correct      int
	TotalPrizes  int
	PerfectGames int
	BestScore    int
}

// Leaderboard ranks users who share their game history (the default when
// they never saved a preference) and have played at least minGames.
// Ordering is accuracy, then perfect games, then games played.
func Leaderboard(ctx context.Context, db *gorm.DB, minGames, limit int) ([]LeaderboardEntry, error) {
	var rows []leaderboardRow
	err := db.WithContext(ctx).
		Table("game_sessions AS gs").
		Select(`gs.user_id AS user_id,
			up.display_name AS display_name,
			COUNT(*) AS games,
			SUM(gs.correct_count) AS correct,
			SUM(gs.total_prizes) AS total_prizes,
			SUM(CASE WHEN gs.correct_count = gs.total_prizes THEN 1 ELSE 0 END) AS perfect_games,
			MAX(gs.correct_count) AS best_score`).
		Joins("LEFT JOIN user_preferences AS up ON up.user_id = gs.user_id AND up.deleted_at IS NULL").
		Where("gs.deleted_at IS NULL").
		Where("(up.share_game_history IS NULL OR up.share_game_history = ?)", true).
		Group("gs.user_id, up.display_name").
		Having("COUNT(*) >= ?", minGames).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		e := LeaderboardEntry{
			UserID:       r.UserID,
			DisplayName:  fallbackName(r.UserID),
			Games:        r.Games,
			Correct:      r.Correct,
			TotalPrizes:  r.TotalPrizes,
			PerfectGames: r.PerfectGames,
			BestScore:    r.BestScore,
		}
		if r.DisplayName != nil && *r.DisplayName != "" {
			e.DisplayName = *r.DisplayName
		}
		if r.TotalPrizes > 0 {
			e.Accuracy = round1(float64(r.Correct) / float64(r.TotalPrizes) * 100)
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.PerfectGames != b.PerfectGames {
			return a.PerfectGames > b.PerfectGames
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.UserID < b.UserID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func fallbackName(userID string) string {
	if len(userID) > 8 {
		userID = userID[:8]
	}
	return "Player " + userID
}
