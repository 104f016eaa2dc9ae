// services/deck_service.go
package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"prize-trainer/game"
	"prize-trainer/middleware"
	"prize-trainer/models"
	"prize-trainer/ports"
	"prize-trainer/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DeckService struct {
	Decks         ports.DeckRepository
	PublicBaseURL string
	Now           func() time.Time
}

func NewDeckService(decks ports.DeckRepository, publicBaseURL string) *DeckService {
	return &DeckService{Decks: decks, PublicBaseURL: strings.TrimRight(publicBaseURL, "/"), Now: time.Now}
}

// DeckResponse is a stored deck plus what parsing its text found.
type DeckResponse struct {
	*models.Decklist
	Valid        bool               `json:"valid"`
	DroppedLines []game.DroppedLine `json:"dropped_lines,omitempty"`
}

func newDeckResponse(d *models.Decklist) DeckResponse {
	report := game.ParseDecklist(d.Cards)
	return DeckResponse{Decklist: d, Valid: report.Valid(), DroppedLines: report.Dropped}
}

type deckRequest struct {
	Name  *string `json:"name"`
	Cards *string `json:"cards"`
}

// CreateDeck stores a decklist. Lists that are not 60 cards are accepted
// and flagged invalid; they only fail when dealt.
func (s *DeckService) CreateDeck(c *fiber.Ctx) error {
	var req deckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return badRequest(c, "name is required")
	}
	if req.Cards == nil || strings.TrimSpace(*req.Cards) == "" {
		return badRequest(c, "cards is required")
	}

	deck := buildDeck(middleware.UserID(c), *req.Name, *req.Cards)
	if err := s.Decks.CreateDeck(c.UserContext(), deck); err != nil {
		log.Printf("❌ [DECKS] create failed for user %s: %v", deck.UserID, err)
		return errorResponse(c, err)
	}

	log.Printf("🃏 [DECKS] user %s saved deck %s (%d cards)", deck.UserID, deck.ID, deck.CardCount)
	return c.Status(fiber.StatusCreated).JSON(newDeckResponse(deck))
}

func buildDeck(userID, name, cards string) *models.Decklist {
	name = strings.TrimSpace(name)
	return &models.Decklist{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Slug:      game.DeckSlug(name),
		Cards:     cards,
		CardCount: game.ParseDecklist(cards).Total,
	}
}

func (s *DeckService) ListDecks(c *fiber.Ctx) error {
	decks, err := s.Decks.ListDecks(c.UserContext(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]DeckResponse, 0, len(decks))
	for i := range decks {
		out = append(out, newDeckResponse(&decks[i]))
	}
	return c.JSON(fiber.Map{"decks": out})
}

func (s *DeckService) GetDeck(c *fiber.Ctx) error {
	deck, err := s.Decks.GetDeck(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(newDeckResponse(deck))
}

func (s *DeckService) UpdateDeck(c *fiber.Ctx) error {
	var req deckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	deck, err := s.Decks.GetDeck(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest(c, "name cannot be empty")
		}
		deck.Name = name
		deck.Slug = game.DeckSlug(name)
	}
	if req.Cards != nil {
		if strings.TrimSpace(*req.Cards) == "" {
			return badRequest(c, "cards cannot be empty")
		}
		deck.Cards = *req.Cards
		deck.CardCount = game.ParseDecklist(deck.Cards).Total
	}

	if err := s.Decks.UpdateDeck(c.UserContext(), deck); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(newDeckResponse(deck))
}

func (s *DeckService) DeleteDeck(c *fiber.Ctx) error {
	if err := s.Decks.DeleteDeck(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PrintDeck renders the deck for printing: plain text by default, the
// grouped sheet with ?format=json.
func (s *DeckService) PrintDeck(c *fiber.Ctx) error {
	deck, err := s.Decks.GetDeck(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	sheet := game.PrintableDeck(deck.Name, deck.Cards)
	if c.Query("format") == "json" {
		return c.JSON(sheet)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.txt"`, sheet.Slug))
	return c.SendString(sheet.Render(s.Now()))
}

// DeckQR returns a QR code PNG pointing at the deck's print URL.
func (s *DeckService) DeckQR(c *fiber.Ctx) error {
	deck, err := s.Decks.GetDeck(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	png, err := utils.QRPNG(fmt.Sprintf("%s/decks/%s/print", s.PublicBaseURL, deck.ID), c.QueryInt("size", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate qr code",
			"cause": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
