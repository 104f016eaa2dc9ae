// services/play_service.go
package services

import (
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"prize-trainer/game"
	"prize-trainer/middleware"
	"prize-trainer/models"
	"prize-trainer/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PlayService runs live play-throughs. Its collaborators are injected so
// tests can replace persistence and card lookups.
type PlayService struct {
	Rounds   *RoundStore
	Decks    ports.DeckRepository
	Recorder ports.ResultRecorder
	Images   ports.CardImageLookup // optional

	// NewRNG returns the source for a new round; nil uses the global source.
	NewRNG func() *rand.Rand
}

func NewPlayService(rounds *RoundStore, decks ports.DeckRepository, recorder ports.ResultRecorder, images ports.CardImageLookup) *PlayService {
	return &PlayService{Rounds: rounds, Decks: decks, Recorder: recorder, Images: images}
}

// RoundView is what a player may see of a round. Prizes and the result are
// only filled in once the round is submitted.
type RoundView struct {
	ID              string                      `json:"id"`
	Phase           game.Phase                  `json:"phase"`
	DeckID          *string                     `json:"deck_id"`
	DeckName        string                      `json:"deck_name"`
	Hand            []string                    `json:"hand"`
	UniqueCardNames []string                    `json:"unique_card_names"`
	PrizeCount      int                         `json:"prize_count"`
	RemainingCount  int                         `json:"remaining_count"`
	Guesses         []string                    `json:"guesses"`
	DealtAt         time.Time                   `json:"dealt_at"`
	Prizes          []string                    `json:"prizes,omitempty"`
	Result          *game.ScoreResult           `json:"result,omitempty"`
	SessionID       string                      `json:"session_id,omitempty"`
	Saved           *bool                       `json:"saved,omitempty"`
	DroppedLines    []game.DroppedLine          `json:"dropped_lines,omitempty"`
	HandImages      map[string]*ports.CardImage `json:"hand_images,omitempty"`
}

// view must be called with lr.mu held.
func view(lr *LiveRound) *RoundView {
	r := lr.Round
	v := &RoundView{
		ID:              lr.ID,
		Phase:           r.Phase(),
		DeckID:          lr.DeckID,
		DeckName:        lr.DeckName,
		Hand:            r.Hand(),
		UniqueCardNames: r.UniqueCardNames(),
		PrizeCount:      game.PrizeCount,
		RemainingCount:  r.RemainingCount(),
		Guesses:         r.Guesses(),
		DealtAt:         r.DealtAt(),
		Result:          r.Result(),
		SessionID:       lr.SessionID,
	}
	if prizes, ok := r.Prizes(); ok {
		v.Prizes = prizes
		saved := lr.SessionID != ""
		v.Saved = &saved
	}
	return v
}

type startRoundRequest struct {
	DeckID string `json:"deck_id"`
	Name   string `json:"name"`
	Cards  string `json:"cards"`
	Save   *bool  `json:"save"` // raw text only; defaults to true
}

// StartRound deals a saved deck ({deck_id}) or pasted text ({name, cards}).
// Pasted decks are saved only after they deal successfully.
func (s *PlayService) StartRound(c *fiber.Ctx) error {
	var req startRoundRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	userID := middleware.UserID(c)
	ctx := c.UserContext()

	var deck *models.Decklist
	switch {
	case req.DeckID != "":
		d, err := s.Decks.GetDeck(ctx, userID, req.DeckID)
		if err != nil {
			return errorResponse(c, err)
		}
		deck = d
	case strings.TrimSpace(req.Cards) != "":
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = "Untitled deck"
		}
		deck = buildDeck(userID, name, req.Cards)
	default:
		return badRequest(c, "deck_id or cards is required")
	}

	var rng *rand.Rand
	if s.NewRNG != nil {
		rng = s.NewRNG()
	}
	report := game.ParseDecklist(deck.Cards)
	round := game.NewRound(rng)
	if err := round.Start(report.Cards); err != nil {
		status, code := apiError(err)
		return c.Status(status).JSON(fiber.Map{
			"error":         code,
			"cause":         err.Error(),
			"total":         report.Total,
			"dropped_lines": report.Dropped,
		})
	}

	lr := &LiveRound{
		ID:       uuid.NewString(),
		UserID:   userID,
		DeckName: deck.Name,
		Round:    round,
	}
	if req.DeckID != "" {
		lr.DeckID = &deck.ID
	} else if req.Save == nil || *req.Save {
		if err := s.Decks.CreateDeck(ctx, deck); err != nil {
			log.Printf("❌ [ROUNDS] could not save pasted deck for user %s: %v", userID, err)
			return errorResponse(c, err)
		}
		lr.DeckID = &deck.ID
	}

	s.Rounds.Add(lr)
	log.Printf("🎴 [ROUNDS] user %s started round %s", userID, lr.ID)

	lr.mu.Lock()
	defer lr.mu.Unlock()
	v := view(lr)
	v.DroppedLines = report.Dropped
	return c.Status(fiber.StatusCreated).JSON(v)
}

// withRound loads the caller's round and runs fn under its lock.
func (s *PlayService) withRound(c *fiber.Ctx, fn func(lr *LiveRound) error) error {
	lr, err := s.Rounds.Get(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return fn(lr)
}

// GetRound returns the round. ?images=true adds artwork for the hand when a
// card lookup is configured; lookup failures are ignored.
func (s *PlayService) GetRound(c *fiber.Ctx) error {
	return s.withRound(c, func(lr *LiveRound) error {
		v := view(lr)
		if c.QueryBool("images") && s.Images != nil {
			v.HandImages = make(map[string]*ports.CardImage)
			for _, name := range v.Hand {
				if _, done := v.HandImages[name]; done {
					continue
				}
				img, err := s.Images.LookupCardImage(c.UserContext(), name)
				if err != nil {
					log.Printf("[CARDS] image lookup for %q failed: %v", name, err)
					continue
				}
				v.HandImages[name] = img
			}
		}
		return c.JSON(v)
	})
}

type guessesRequest struct {
	Guesses []string `json:"guesses"`
}

func (s *PlayService) SetGuesses(c *fiber.Ctx) error {
	var req guessesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return s.withRound(c, func(lr *LiveRound) error {
		if err := lr.Round.SetGuesses(req.Guesses); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(view(lr))
	})
}

type guessRequest struct {
	Value string `json:"value"`
}

// SetGuess fills one slot; slots in the URL are numbered 1 to 6.
func (s *PlayService) SetGuess(c *fiber.Ctx) error {
	slot, err := strconv.Atoi(c.Params("slot"))
	if err != nil {
		return errorResponse(c, game.ErrGuessSlot)
	}
	var req guessRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return s.withRound(c, func(lr *LiveRound) error {
		if err := lr.Round.SetGuess(slot-1, req.Value); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(view(lr))
	})
}

func (s *PlayService) SuggestCards(c *fiber.Ctx) error {
	return s.withRound(c, func(lr *LiveRound) error {
		return c.JSON(fiber.Map{
			"suggestions": game.Suggest(lr.Round.UniqueCardNames(), c.Query("q")),
		})
	})
}

type submitRequest struct {
	Guesses     []string `json:"guesses"`
	TimeSpentMs *int64   `json:"time_spent_ms"`
}

// SubmitRound scores the round and records the result once. A recording
// failure is reported with saved=false; the round stays submitted.
func (s *PlayService) SubmitRound(c *fiber.Ctx) error {
	var req submitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	return s.withRound(c, func(lr *LiveRound) error {
		if req.Guesses != nil {
			if err := lr.Round.SetGuesses(req.Guesses); err != nil {
				return errorResponse(c, err)
			}
		}

		elapsed := time.Duration(-1)
		if req.TimeSpentMs != nil && *req.TimeSpentMs >= 0 {
			elapsed = time.Duration(*req.TimeSpentMs) * time.Millisecond
		}

		result, err := lr.Round.Submit(elapsed)
		if err != nil {
			return errorResponse(c, err)
		}

		session, err := s.Recorder.RecordResult(c.UserContext(), lr.UserID, lr.DeckID, result)
		if err != nil {
			log.Printf("❌ [ROUNDS] failed to record round %s: %v", lr.ID, err)
		} else {
			lr.SessionID = session.ID
			log.Printf("✅ [ROUNDS] round %s scored %d/%d, session %s", lr.ID, result.CorrectCount, result.TotalPrizes, session.ID)
		}
		return c.JSON(view(lr))
	})
}

func (s *PlayService) RestartRound(c *fiber.Ctx) error {
	return s.withRound(c, func(lr *LiveRound) error {
		if err := lr.Round.Restart(); err != nil {
			return errorResponse(c, err)
		}
		lr.SessionID = ""
		return c.JSON(view(lr))
	})
}

func (s *PlayService) AbandonRound(c *fiber.Ctx) error {
	if err := s.Rounds.Remove(middleware.UserID(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
