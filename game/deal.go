package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

const (
	DeckSize   = 60
	HandSize   = 7
	PrizeCount = 6
)

var ErrInvalidDeckSize = errors.New("deck must contain exactly 60 cards")

// Deal is the opening layout of one play-through.
type Deal struct {
	Hand            []string `json:"hand"`
	Prizes          []string `json:"prizes"`
	RemainingDeck   []string `json:"remaining_deck"`
	UniqueCardNames []string `json:"unique_card_names"`
}

// NewDeal shuffles a copy of deck and splits it into hand, prizes and the
// rest of the deck. A nil rng uses the global source.
func NewDeal(deck []string, rng *rand.Rand) (*Deal, error) {
	if len(deck) != DeckSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDeckSize, len(deck))
	}

	perm := make([]string, len(deck))
	copy(perm, deck)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	return &Deal{
		Hand:            perm[:HandSize:HandSize],
		Prizes:          perm[HandSize : HandSize+PrizeCount : HandSize+PrizeCount],
		RemainingDeck:   perm[HandSize+PrizeCount:],
		UniqueCardNames: UniqueCardNames(deck),
	}, nil
}

// ParseAndDeal parses decklist text and deals it. The report is returned
// even when the deal fails so callers can show the dropped lines.
func ParseAndDeal(text string, rng *rand.Rand) (*Deal, *ParseReport, error) {
	report := ParseDecklist(text)
	deal, err := NewDeal(report.Cards, rng)
	if err != nil {
		return nil, report, err
	}
	return deal, report, nil
}

// UniqueCardNames returns the distinct identifiers in deck, sorted.
func UniqueCardNames(deck []string) []string {
	seen := make(map[string]struct{}, len(deck))
	names := make([]string, 0, len(deck))
	for _, c := range deck {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}
