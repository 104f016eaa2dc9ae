// services/errors.go
package services

import (
	"errors"

	"prize-trainer/game"
	"prize-trainer/ports"
	"prize-trainer/storage"

	"github.com/gofiber/fiber/v2"
)

// apiError maps a domain error to a status and a stable error code.
func apiError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidDeckSize):
		return fiber.StatusUnprocessableEntity, "invalid_deck_size"
	case errors.Is(err, game.ErrIncompleteGuesses):
		return fiber.StatusUnprocessableEntity, "incomplete_guesses"
	case errors.Is(err, game.ErrGuessSlot):
		return fiber.StatusBadRequest, "invalid_guess_slot"
	case errors.Is(err, game.ErrRoundSubmitted):
		return fiber.StatusConflict, "round_submitted"
	case errors.Is(err, game.ErrRoundNotDealt):
		return fiber.StatusConflict, "round_not_dealt"
	case errors.Is(err, ErrRoundNotFound):
		return fiber.StatusNotFound, "round_not_found"
	case errors.Is(err, ports.ErrDeckNotFound):
		return fiber.StatusNotFound, "deck_not_found"
	case errors.Is(err, storage.ErrSessionNotFound):
		return fiber.StatusNotFound, "session_not_found"
	case errors.Is(err, storage.ErrDisplayNameTaken):
		return fiber.StatusConflict, "display_name_taken"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status, code := apiError(err)
	return c.Status(status).JSON(fiber.Map{
		"error": code,
		"cause": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
