// services/card_service.go
package services

import (
	"log"
	"strings"

	"prize-trainer/ports"

	"github.com/gofiber/fiber/v2"
)

type CardService struct {
	Images ports.CardImageLookup
}

func NewCardService(images ports.CardImageLookup) *CardService {
	return &CardService{Images: images}
}

func (s *CardService) GetCardImage(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return badRequest(c, "name is required")
	}

	img, err := s.Images.LookupCardImage(c.UserContext(), name)
	if err != nil {
		log.Printf("❌ [CARDS] lookup %q failed: %v", name, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "card lookup failed",
			"cause": err.Error(),
		})
	}
	if img == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "card_not_found"})
	}
	return c.JSON(img)
}
