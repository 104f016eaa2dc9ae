package storage

import (
	"math"
	"sort"
	"time"

	"prize-trainer/game"
	"prize-trainer/models"
)

// SessionPoint is one entry of the accuracy-over-time series.
type SessionPoint struct {
	SessionID       string    `json:"session_id"`
	PlayedAt        time.Time `json:"played_at"`
	Accuracy        float64   `json:"accuracy"`
	CorrectCount    int       `json:"correct_count"`
	DeckName        string    `json:"deck_name"`
	TimeSpentMillis int64     `json:"time_spent_ms"`
}

// CardRate is how often guesses of one card were right.
type CardRate struct {
	CardName     string  `json:"card_name"`
	TimesGuessed int     `json:"times_guessed"`
	Correct      int     `json:"correct"`
	SuccessRate  float64 `json:"success_rate"`
}

type DeckSummary struct {
	DeckID          string  `json:"deck_id,omitempty"`
	DeckName        string  `json:"deck_name"`
	Games           int     `json:"games"`
	AverageAccuracy float64 `json:"average_accuracy"`
	BestScore       int     `json:"best_score"`
}

type OverallStats struct {
	Games            int     `json:"games"`
	AverageAccuracy  float64 `json:"average_accuracy"`
	BestScore        int     `json:"best_score"`
	PerfectGames     int     `json:"perfect_games"`
	AverageTimeMilli int64   `json:"average_time_ms"`
}

type Analytics struct {
	Sessions []SessionPoint `json:"sessions"`
	Cards    []CardRate     `json:"cards"`
	Decks    []DeckSummary  `json:"decks"`
	Overall  OverallStats   `json:"overall"`
}

// UnsavedDeckName labels sessions played from text that was never saved.
const UnsavedDeckName = "Unsaved deck"

func deckName(s models.GameSession) string {
	if s.Deck != nil && s.Deck.Name != "" {
		return s.Deck.Name
	}
	return UnsavedDeckName
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BuildAnalytics aggregates sessions given oldest first. Card rates are keyed
// by normalized guess and sorted by rate, then volume; deck summaries by games
// played.
func BuildAnalytics(sessions []models.GameSession) *Analytics {
	a := &Analytics{
		Sessions: make([]SessionPoint, 0, len(sessions)),
		Cards:    make([]CardRate, 0),
		Decks:    make([]DeckSummary, 0),
	}
	if len(sessions) == 0 {
		return a
	}

	cards := make(map[string]*CardRate)
	decks := make(map[string]*DeckSummary)
	var deckOrder []string
	var correctSum, prizeSum int
	var timeSum int64

	for _, s := range sessions {
		a.Sessions = append(a.Sessions, SessionPoint{
			SessionID:       s.ID,
			PlayedAt:        s.PlayedAt,
			Accuracy:        round1(s.Accuracy()),
			CorrectCount:    s.CorrectCount,
			DeckName:        deckName(s),
			TimeSpentMillis: s.TimeSpentMillis,
		})

		for i, g := range s.Guesses {
			name := game.NormalizeCardName(g)
			if name == "" {
				continue
			}
			cr, ok := cards[name]
			if !ok {
				cr = &CardRate{CardName: name}
				cards[name] = cr
			}
			cr.TimesGuessed++
			if i < len(s.Marks) && s.Marks[i] {
				cr.Correct++
			}
		}

		key := UnsavedDeckName
		if s.DeckID != nil {
			key = *s.DeckID
		}
		ds, ok := decks[key]
		if !ok {
			ds = &DeckSummary{DeckName: deckName(s)}
			if s.DeckID != nil {
				ds.DeckID = *s.DeckID
			}
			decks[key] = ds
			deckOrder = append(deckOrder, key)
		}
		ds.Games++
		ds.AverageAccuracy += s.Accuracy()
		ds.BestScore = max(ds.BestScore, s.CorrectCount)

		a.Overall.Games++
		a.Overall.BestScore = max(a.Overall.BestScore, s.CorrectCount)
		if s.TotalPrizes > 0 && s.CorrectCount == s.TotalPrizes {
			a.Overall.PerfectGames++
		}
		correctSum += s.CorrectCount
		prizeSum += s.TotalPrizes
		timeSum += s.TimeSpentMillis
	}

	if prizeSum > 0 {
		a.Overall.AverageAccuracy = round1(float64(correctSum) / float64(prizeSum) * 100)
	}
	a.Overall.AverageTimeMilli = timeSum / int64(a.Overall.Games)

	for _, cr := range cards {
		cr.SuccessRate = round1(float64(cr.Correct) / float64(cr.TimesGuessed) * 100)
		a.Cards = append(a.Cards, *cr)
	}
	sort.Slice(a.Cards, func(i, j int) bool {
		ci, cj := a.Cards[i], a.Cards[j]
		if ci.SuccessRate != cj.SuccessRate {
			return ci.SuccessRate > cj.SuccessRate
		}
		if ci.TimesGuessed != cj.TimesGuessed {
			return ci.TimesGuessed > cj.TimesGuessed
		}
		return ci.CardName < cj.CardName
	})

	for _, key := range deckOrder {
		ds := decks[key]
		ds.AverageAccuracy = round1(ds.AverageAccuracy / float64(ds.Games))
		a.Decks = append(a.Decks, *ds)
	}
	sort.SliceStable(a.Decks, func(i, j int) bool { return a.Decks[i].Games > a.Decks[j].Games })

	return a
}
