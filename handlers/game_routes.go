// handlers/game_routes.go
package handlers

import (
	"prize-trainer/services"

	"github.com/gofiber/fiber/v2"
)

// SetupGameRoutes registers decklists, live rounds and card art. Every route
// requires an authenticated user.
func SetupGameRoutes(app *fiber.App, auth fiber.Handler, decks *services.DeckService, play *services.PlayService, cards *services.CardService) {
	d := app.Group("/decks", auth)
	d.Post("/", decks.CreateDeck)
	d.Get("/", decks.ListDecks)
	d.Get("/:id", decks.GetDeck)
	d.Put("/:id", decks.UpdateDeck)
	d.Delete("/:id", decks.DeleteDeck)
	d.Get("/:id/print", decks.PrintDeck)
	d.Get("/:id/qr.png", decks.DeckQR)

	r := app.Group("/rounds", auth)
	r.Post("/", play.StartRound)
	r.Get("/:id", play.GetRound)
	r.Put("/:id/guesses", play.SetGuesses)
	r.Patch("/:id/guesses/:slot", play.SetGuess)
	r.Get("/:id/suggest", play.SuggestCards)
	r.Post("/:id/submit", play.SubmitRound)
	r.Post("/:id/restart", play.RestartRound)
	r.Delete("/:id", play.AbandonRound)

	app.Get("/cards/image", auth, cards.GetCardImage)
}
