package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Card categories on a printed decklist.
const (
	GroupPokemon = "Pokemon"
	GroupTrainer = "Trainer"
	GroupEnergy  = "Energy"
)

var groupOrder = []string{GroupPokemon, GroupTrainer, GroupEnergy}

// PrintGroup is one section of a printed decklist.
type PrintGroup struct {
	Name    string      `json:"name"`
	Entries []DeckEntry `json:"entries"`
	Count   int         `json:"count"`
}

// PrintSheet is a decklist laid out for printing.
type PrintSheet struct {
	DeckName string        `json:"deck_name"`
	Slug     string        `json:"slug"`
	Groups   []PrintGroup  `json:"groups"`
	Total    int           `json:"total"`
	Dropped  []DroppedLine `json:"dropped_lines"`
}

// CardGroup guesses which section a card belongs on from its name alone.
func CardGroup(name string) string {
	switch {
	case strings.HasPrefix(name, "Basic ") || strings.Contains(name, "Energy"):
		return GroupEnergy
	case strings.Contains(name, "Trainer"):
		return GroupTrainer
	default:
		return GroupPokemon
	}
}

// PrintableDeck merges repeated lines of the same card and groups the result.
// Empty groups are left out.
func PrintableDeck(deckName, text string) *PrintSheet {
	report := ParseDecklist(text)

	merged := make(map[string]int)
	order := make([]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		if _, ok := merged[e.Name]; !ok {
			order = append(order, e.Name)
		}
		merged[e.Name] += e.Quantity
	}

	byGroup := make(map[string]*PrintGroup, len(groupOrder))
	for _, name := range order {
		g := CardGroup(name)
		pg, ok := byGroup[g]
		if !ok {
			pg = &PrintGroup{Name: g}
			byGroup[g] = pg
		}
		pg.Entries = append(pg.Entries, DeckEntry{Quantity: merged[name], Name: name})
		pg.Count += merged[name]
	}

	sheet := &PrintSheet{
		DeckName: deckName,
		Slug:     DeckSlug(deckName),
		Total:    report.Total,
		Groups:   make([]PrintGroup, 0, len(byGroup)),
		Dropped:  report.Dropped,
	}
	for _, g := range groupOrder {
		if pg, ok := byGroup[g]; ok {
			sheet.Groups = append(sheet.Groups, *pg)
		}
	}
	return sheet
}

// DeckSlug is the URL and filename form of a deck name.
func DeckSlug(name string) string {
	s := slug.Make(name)
	if s == "" {
		return "decklist"
	}
	return s
}

// Render lays the sheet out as plain text, stamped with printedAt.
func (s *PrintSheet) Render(printedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.DeckName)
	fmt.Fprintf(&b, "Printed %s\n", printedAt.Format("2006-01-02"))

	for _, g := range s.Groups {
		fmt.Fprintf(&b, "\n%s (%d)\n", g.Name, g.Count)
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "%d %s\n", e.Quantity, e.Name)
		}
	}

	fmt.Fprintf(&b, "\nTotal Cards: %d\n", s.Total)
	return b.String()
}
