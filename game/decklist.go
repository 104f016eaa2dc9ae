// Package game holds the prize-check core: decklist parsing, dealing,
// scoring and the state of a single play-through.
package game

import (
	"regexp"
	"strconv"
	"strings"
)

var decklistLine = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// maxExpandedCards bounds how many copies ParseDecklist materializes. Totals
// are still counted past it, and any such deck fails the size check anyway.
const maxExpandedCards = 1000

// DeckEntry is one accepted decklist line.
type DeckEntry struct {
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// DroppedLine is a non-blank line that did not match "<quantity> <name>".
type DroppedLine struct {
	Number int    `json:"line"`
	Text   string `json:"text"`
}

// ParseReport is the result of parsing decklist text.
type ParseReport struct {
	Cards   []string      `json:"-"`
	Entries []DeckEntry   `json:"entries"`
	Dropped []DroppedLine `json:"dropped_lines"`
	Total   int           `json:"total"`
}

// Valid reports whether the accepted lines add up to a legal deck.
func (r *ParseReport) Valid() bool {
	return r.Total == DeckSize
}

// Parse expands decklist text into one entry per physical card, in line
// order. Lines that do not match the grammar are skipped.
func Parse(text string) []string {
	return ParseDecklist(text).Cards
}

// ParseDecklist parses decklist text and keeps track of the lines it had to
// drop, so callers can warn about typos the 60-card check would not catch.
func ParseDecklist(text string) *ParseReport {
	report := &ParseReport{
		Cards:   make([]string, 0, DeckSize),
		Entries: make([]DeckEntry, 0),
		Dropped: make([]DroppedLine, 0),
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		m := decklistLine.FindStringSubmatch(line)
		if m == nil {
			report.Dropped = append(report.Dropped, DroppedLine{Number: i + 1, Text: line})
			continue
		}

		qty, err := strconv.Atoi(m[1])
		if err != nil {
			// digits too long for an int
			report.Dropped = append(report.Dropped, DroppedLine{Number: i + 1, Text: line})
			continue
		}

		name := m[2]
		report.Entries = append(report.Entries, DeckEntry{Quantity: qty, Name: name})
		report.Total += qty
		for n := 0; n < qty && len(report.Cards) < maxExpandedCards; n++ {
			report.Cards = append(report.Cards, name)
		}
	}

	return report
}
