package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"prize-trainer/auth"
	"prize-trainer/cardimages"
	"prize-trainer/config"
	"prize-trainer/handlers"
	"prize-trainer/middleware"
	"prize-trainer/services"
	"prize-trainer/storage"
	"prize-trainer/utils"
	"prize-trainer/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}

	var uploads utils.ObjectStore
	if cfg.R2Enabled() {
		uploads, err = utils.NewR2Store(ctx, utils.R2Config{
			AccountID:       cfg.Storage.R2AccountID,
			AccessKeyID:     cfg.Storage.R2AccessKeyID,
			AccessKeySecret: cfg.Storage.R2AccessKeySecret,
			Bucket:          cfg.Storage.R2Bucket,
			CDNBaseURL:      cfg.Storage.CDNBaseURL,
		})
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Printf("⚠️  R2 not configured, storing uploads in %s", cfg.Storage.LocalDir)
		uploads, err = utils.NewLocalStore(cfg.Storage.LocalDir, cfg.Server.PublicBaseURL)
		if err != nil {
			log.Fatal(err)
		}
	}

	sessionsProvider, err := auth.NewJWTProvider(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}
	cardClient := cardimages.NewClient(cardimages.Options{
		BaseURL:      cfg.Cards.APIBaseURL,
		APIKey:       cfg.Cards.APIKey,
		RateInterval: cfg.RateInterval(),
		CacheTTL:     cfg.CardCacheTTL(),
	})

	deckStore := storage.NewDeckStore(db)
	sessionStore := storage.NewSessionStore(db)
	rounds := services.NewRoundStore()

	deckService := services.NewDeckService(deckStore, cfg.Server.PublicBaseURL)
	playService := services.NewPlayService(rounds, deckStore, sessionStore, cardClient)
	cardService := services.NewCardService(cardClient)
	historyService := services.NewHistoryService(sessionStore)
	profileService := services.NewProfileService(storage.NewPreferenceStore(db), uploads)
	leaderboard := services.NewLeaderboardService(db, cfg.Game.LeaderboardMinGames, cfg.Game.LeaderboardMaxEntries)

	sched, err := leaderboard.StartLeaderboardScheduler(cfg.LeaderboardRefresh())
	if err != nil {
		log.Fatal(err)
	}
	go workers.EvictStaleRounds(ctx, rounds, cfg.RoundTTL(), cfg.JanitorInterval())

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Server.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Service-Token",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	userCtx := middleware.UserContextMiddleware(sessionsProvider)
	handlers.SetupHealthRoutes(app)
	handlers.SetupGameRoutes(app, userCtx, deckService, playService, cardService)
	handlers.SetupPlayerRoutes(app, userCtx, middleware.ServiceTokenMiddleware(cfg.Auth.ServiceToken),
		historyService, profileService, leaderboard)

	if !cfg.R2Enabled() {
		app.Static("/uploads", cfg.Storage.LocalDir)
	}

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Server.Port)
	log.Printf("✅ Leaderboard refresh every %s", cfg.LeaderboardRefresh())
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.Server.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Printf("[SCHEDULER] shutdown: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
