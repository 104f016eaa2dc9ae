// handlers/player_routes.go
package handlers

import (
	"prize-trainer/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPlayerRoutes registers history, analytics, profile and leaderboard.
// The leaderboard refresh is an operator endpoint behind the service token.
func SetupPlayerRoutes(app *fiber.App, auth, admin fiber.Handler, history *services.HistoryService, profile *services.ProfileService, board *services.LeaderboardService) {
	h := app.Group("/history", auth)
	h.Get("/", history.ListHistory)
	h.Get("/:id", history.GetHistoryEntry)

	app.Get("/analytics", auth, history.GetAnalytics)
	app.Get("/leaderboard", auth, board.GetLeaderboard)

	p := app.Group("/profile", auth)
	p.Get("/", profile.GetProfile)
	p.Put("/", profile.UpdateProfile)
	p.Get("/display-name", profile.CheckDisplayName)
	p.Post("/picture", profile.UploadPicture)

	app.Post("/admin/leaderboard/refresh", admin, board.RefreshLeaderboard)
}

func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
