package game

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrIncompleteGuesses = errors.New("all 6 prize guesses are required")
	ErrInvalidPrizeCount = errors.New("exactly 6 prize cards are required")
)

var (
	// first whitespace run followed by "(" or a digit
	suffixStart   = regexp.MustCompile(`\s+[(\d]`)
	setCode       = regexp.MustCompile(`^[A-Z][A-Z0-9-]{1,7}$`)
	collectorNumb = regexp.MustCompile(`^[A-Z]{0,4}\d+[a-z]?$`)
)

// Rule boxes that look like set codes but are part of the card name.
var mechanicTokens = map[string]bool{
	"EX":     true,
	"GX":     true,
	"VMAX":   true,
	"VSTAR":  true,
	"VUNION": true,
	"BREAK":  true,
}

// NormalizeCardName reduces a card identifier to its bare name, so that
// "Pikachu SVI 54", "Pikachu (SVI) 54" and "Pikachu" compare equal. All prints
// of a same-named card collapse to one name.
func NormalizeCardName(raw string) string {
	name := norm.NFC.String(strings.TrimSpace(raw))

	if fields := strings.Fields(name); len(fields) >= 3 {
		set, num := fields[len(fields)-2], fields[len(fields)-1]
		if setCode.MatchString(set) && !mechanicTokens[set] && collectorNumb.MatchString(num) {
			name = strings.Join(fields[:len(fields)-2], " ")
		}
	}

	if loc := suffixStart.FindStringIndex(name); loc != nil {
		if head := strings.TrimSpace(name[:loc[0]]); head != "" {
			name = head
		}
	}
	return name
}

// Score counts correct guesses with multiset semantics: each distinct
// normalized name scores min(copies in prizes, copies guessed).
func Score(guesses, prizes []string) (int, error) {
	if err := checkSubmission(guesses, prizes); err != nil {
		return 0, err
	}

	prizeCounts := countNormalized(prizes)
	guessCounts := countNormalized(guesses)

	correct := 0
	for name, n := range prizeCounts {
		correct += min(n, guessCounts[name])
	}
	return correct, nil
}

// MarkGuesses reports per slot whether a guess hit a prize. Slots are matched
// left to right, so repeating a card more often than it was prized only
// marks the first copies. The number of true marks always equals Score.
func MarkGuesses(guesses, prizes []string) ([]bool, error) {
	if err := checkSubmission(guesses, prizes); err != nil {
		return nil, err
	}

	remaining := countNormalized(prizes)
	marks := make([]bool, len(guesses))
	for i, g := range guesses {
		name := NormalizeCardName(g)
		if remaining[name] > 0 {
			remaining[name]--
			marks[i] = true
		}
	}
	return marks, nil
}

// ScoreResult is the outcome of one submitted round.
type ScoreResult struct {
	CorrectCount    int      `json:"correct_count"`
	TotalPrizes     int      `json:"total_prizes"`
	Guesses         []string `json:"guesses"`
	ActualPrizes    []string `json:"actual_prizes"`
	TimeSpentMillis int64    `json:"time_spent_ms"`
	Marks           []bool   `json:"marks"`
}

// Accuracy returns the share of prizes named correctly, in percent.
func (r ScoreResult) Accuracy() float64 {
	if r.TotalPrizes == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalPrizes) * 100
}

// ScoreGuesses scores a complete submission and packages it for storage.
func ScoreGuesses(guesses, prizes []string, timeSpentMillis int64) (*ScoreResult, error) {
	correct, err := Score(guesses, prizes)
	if err != nil {
		return nil, err
	}
	marks, err := MarkGuesses(guesses, prizes)
	if err != nil {
		return nil, err
	}
	if timeSpentMillis < 0 {
		timeSpentMillis = 0
	}

	return &ScoreResult{
		CorrectCount:    correct,
		TotalPrizes:     PrizeCount,
		Guesses:         append([]string(nil), guesses...),
		ActualPrizes:    append([]string(nil), prizes...),
		TimeSpentMillis: timeSpentMillis,
		Marks:           marks,
	}, nil
}

func checkSubmission(guesses, prizes []string) error {
	if len(guesses) != PrizeCount {
		return fmt.Errorf("%w: got %d", ErrIncompleteGuesses, len(guesses))
	}
	for i, g := range guesses {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("%w: slot %d is empty", ErrIncompleteGuesses, i+1)
		}
	}
	if len(prizes) != PrizeCount {
		return fmt.Errorf("%w: got %d", ErrInvalidPrizeCount, len(prizes))
	}
	return nil
}

func countNormalized(cards []string) map[string]int {
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[NormalizeCardName(c)]++
	}
	return counts
}
