package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Phase is where a play-through stands.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseDealt      Phase = "dealt"
	PhaseSubmitted  Phase = "submitted"
)

var (
	ErrRoundNotDealt  = errors.New("round has no live deal")
	ErrRoundSubmitted = errors.New("round already submitted")
	ErrGuessSlot      = errors.New("guess slot must be between 1 and 6")
)

// Round is one play-through: a deal, the player's guesses and, once
// submitted, the score. It is not safe for concurrent use.
type Round struct {
	phase   Phase
	deck    []string
	deal    *Deal
	guesses [PrizeCount]string
	result  *ScoreResult
	dealtAt time.Time

	rng *rand.Rand
	now func() time.Time
}

// NewRound returns a round in the NotStarted phase. A nil rng uses the
// global source.
func NewRound(rng *rand.Rand) *Round {
	return &Round{phase: PhaseNotStarted, rng: rng, now: time.Now}
}

// Start deals deck. On error the round is left exactly as it was.
func (r *Round) Start(deck []string) error {
	deal, err := NewDeal(deck, r.rng)
	if err != nil {
		return err
	}
	r.deck = append([]string(nil), deck...)
	r.reset(deal)
	return nil
}

// Restart throws away the current deal, guesses and result and deals a
// fresh shuffle of the same deck.
func (r *Round) Restart() error {
	if r.phase == PhaseNotStarted {
		return ErrRoundNotDealt
	}
	deal, err := NewDeal(r.deck, r.rng)
	if err != nil {
		return err
	}
	r.reset(deal)
	return nil
}

func (r *Round) reset(deal *Deal) {
	r.deal = deal
	r.guesses = [PrizeCount]string{}
	r.result = nil
	r.phase = PhaseDealt
	r.dealtAt = r.now()
}

// SetGuess fills slot (0-based) with value. An empty value clears the slot.
func (r *Round) SetGuess(slot int, value string) error {
	if err := r.editable(); err != nil {
		return err
	}
	if slot < 0 || slot >= PrizeCount {
		return fmt.Errorf("%w: got %d", ErrGuessSlot, slot+1)
	}
	r.guesses[slot] = strings.TrimSpace(value)
	return nil
}

// SetGuesses replaces every slot at once.
func (r *Round) SetGuesses(values []string) error {
	if err := r.editable(); err != nil {
		return err
	}
	if len(values) > PrizeCount {
		return fmt.Errorf("%w: got %d guesses", ErrGuessSlot, len(values))
	}
	var next [PrizeCount]string
	for i, v := range values {
		next[i] = strings.TrimSpace(v)
	}
	r.guesses = next
	return nil
}

func (r *Round) editable() error {
	switch r.phase {
	case PhaseDealt:
		return nil
	case PhaseSubmitted:
		return ErrRoundSubmitted
	default:
		return ErrRoundNotDealt
	}
}

// Submit scores the current guesses. An incomplete submission leaves the
// round in the Dealt phase. timeSpent < 0 means "measure since the deal".
func (r *Round) Submit(timeSpent time.Duration) (*ScoreResult, error) {
	if err := r.editable(); err != nil {
		return nil, err
	}
	if timeSpent < 0 {
		timeSpent = r.now().Sub(r.dealtAt)
	}

	result, err := ScoreGuesses(r.guesses[:], r.deal.Prizes, timeSpent.Milliseconds())
	if err != nil {
		return nil, err
	}
	r.result = result
	r.phase = PhaseSubmitted
	return result, nil
}

func (r *Round) Phase() Phase { return r.phase }

func (r *Round) DealtAt() time.Time { return r.dealtAt }

// Hand returns the visible opening hand, or nil before a deal.
func (r *Round) Hand() []string {
	if r.deal == nil {
		return nil
	}
	return append([]string(nil), r.deal.Hand...)
}

// Prizes are hidden until the round is submitted.
func (r *Round) Prizes() ([]string, bool) {
	if r.phase != PhaseSubmitted {
		return nil, false
	}
	return append([]string(nil), r.deal.Prizes...), true
}

func (r *Round) UniqueCardNames() []string {
	if r.deal == nil {
		return nil
	}
	return r.deal.UniqueCardNames
}

func (r *Round) RemainingCount() int {
	if r.deal == nil {
		return 0
	}
	return len(r.deal.RemainingDeck)
}

func (r *Round) Guesses() []string {
	return append([]string(nil), r.guesses[:]...)
}

// Result is nil until the round is submitted.
func (r *Round) Result() *ScoreResult { return r.result }
