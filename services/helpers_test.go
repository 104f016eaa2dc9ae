package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"prize-trainer/game"
	"prize-trainer/middleware"
	"prize-trainer/models"
	"prize-trainer/ports"
	"prize-trainer/storage"
	"prize-trainer/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const sampleDecklist = `4 Pikachu ex SVI 57
3 Raichu PAL 63
2 Mew ex MEW 151
4 Ultra Ball SVI 196
4 Nest Ball SVI 181
4 Iono PAL 185
3 Boss's Orders PAL 172
4 Arven SVI 166
2 Super Rod PAL 188
2 Switch SVI 194
4 Rare Candy SVI 191
24 Basic Lightning Energy SVE 4
`

// tokenSessions treats the bearer token itself as the user id.
type tokenSessions struct{}

func (tokenSessions) Authenticate(_ context.Context, token string) (*ports.Session, error) {
	if token == "" {
		return nil, ports.ErrUnauthenticated
	}
	return &ports.Session{UserID: token}, nil
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordResult(ctx context.Context, userID string, deckID *string, result *game.ScoreResult) (*models.GameSession, error) {
	args := m.Called(userID, result.CorrectCount)
	s, _ := args.Get(0).(*models.GameSession)
	return s, args.Error(1)
}

type mockImages struct {
	mock.Mock
}

func (m *mockImages) LookupCardImage(ctx context.Context, name string) (*ports.CardImage, error) {
	args := m.Called(name)
	img, _ := args.Get(0).(*ports.CardImage)
	return img, args.Error(1)
}

type testEnv struct {
	app         *fiber.App
	db          *gorm.DB
	rounds      *RoundStore
	play        *PlayService
	images      *mockImages
	leaderboard *LeaderboardService
	uploadDir   string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.Open("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	uploadDir := t.TempDir()
	uploads, err := utils.NewLocalStore(uploadDir, "http://localhost:5200")
	require.NoError(t, err)

	decks := storage.NewDeckStore(db)
	sessions := storage.NewSessionStore(db)
	rounds := NewRoundStore()
	images := new(mockImages)

	env := &testEnv{
		app:         fiber.New(),
		db:          db,
		rounds:      rounds,
		play:        NewPlayService(rounds, decks, sessions, images),
		images:      images,
		leaderboard: NewLeaderboardService(db, 1, 10),
		uploadDir:   uploadDir,
	}

	auth := middleware.UserContextMiddleware(tokenSessions{})
	deckService := NewDeckService(decks, "https://prizes.example")
	history := NewHistoryService(sessions)
	profile := NewProfileService(storage.NewPreferenceStore(db), uploads)
	cards := NewCardService(images)

	// mirrors handlers.SetupGameRoutes / SetupPlayerRoutes
	d := env.app.Group("/decks", auth)
	d.Post("/", deckService.CreateDeck)
	d.Get("/", deckService.ListDecks)
	d.Get("/:id", deckService.GetDeck)
	d.Put("/:id", deckService.UpdateDeck)
	d.Delete("/:id", deckService.DeleteDeck)
	d.Get("/:id/print", deckService.PrintDeck)
	d.Get("/:id/qr.png", deckService.DeckQR)

	r := env.app.Group("/rounds", auth)
	r.Post("/", env.play.StartRound)
	r.Get("/:id", env.play.GetRound)
	r.Put("/:id/guesses", env.play.SetGuesses)
	r.Patch("/:id/guesses/:slot", env.play.SetGuess)
	r.Get("/:id/suggest", env.play.SuggestCards)
	r.Post("/:id/submit", env.play.SubmitRound)
	r.Post("/:id/restart", env.play.RestartRound)
	r.Delete("/:id", env.play.AbandonRound)

	env.app.Get("/cards/image", auth, cards.GetCardImage)
	env.app.Get("/history", auth, history.ListHistory)
	env.app.Get("/history/:id", auth, history.GetHistoryEntry)
	env.app.Get("/analytics", auth, history.GetAnalytics)
	env.app.Get("/leaderboard", auth, env.leaderboard.GetLeaderboard)
	env.app.Post("/admin/leaderboard/refresh", middleware.ServiceTokenMiddleware("ops"), env.leaderboard.RefreshLeaderboard)

	p := env.app.Group("/profile", auth)
	p.Get("/", profile.GetProfile)
	p.Put("/", profile.UpdateProfile)
	p.Get("/display-name", profile.CheckDisplayName)
	p.Post("/picture", profile.UploadPicture)

	return env
}

// call sends a JSON request as user and decodes a JSON response into out
// when out is non-nil. It returns the status and the raw body.
func (e *testEnv) call(t *testing.T, method, path, user string, body interface{}, out interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+user)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode, raw
}

type errorBody struct {
	Error        string             `json:"error"`
	Cause        string             `json:"cause"`
	Total        int                `json:"total"`
	DroppedLines []game.DroppedLine `json:"dropped_lines"`
}
