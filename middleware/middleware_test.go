package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"prize-trainer/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Authenticate(ctx context.Context, token string) (*ports.Session, error) {
	args := m.Called(token)
	s, _ := args.Get(0).(*ports.Session)
	return s, args.Error(1)
}

func whoami(c *fiber.Ctx) error {
	return c.SendString(UserID(c) + "|" + fmt.Sprint(c.Locals(LocalUserRole)))
}

func TestUserContextMiddleware(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Authenticate", "good").Return(&ports.Session{UserID: "u1", Role: "authenticated"}, nil)
	sessions.On("Authenticate", "").Return(nil, fmt.Errorf("%w: missing token", ports.ErrUnauthenticated))

	app := fiber.New()
	app.Get("/me", UserContextMiddleware(sessions), whoami)

	for _, header := range []string{"Bearer good", "bearer good", "good"} {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, header)
		assert.Equal(t, "u1|authenticated", string(body))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	sessions.AssertExpectations(t)
}

func TestServiceTokenMiddleware(t *testing.T) {
	app := fiber.New()
	app.Post("/admin", ServiceTokenMiddleware("s3cret"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	disabled := fiber.New()
	disabled.Post("/admin", ServiceTokenMiddleware(""), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		app    *fiber.App
		header string
		value  string
		want   int
	}{
		{"x-service-token", app, "X-Service-Token", "s3cret", fiber.StatusNoContent},
		{"bearer", app, "Authorization", "Bearer s3cret", fiber.StatusNoContent},
		{"wrong", app, "X-Service-Token", "nope", fiber.StatusUnauthorized},
		{"missing", app, "", "", fiber.StatusUnauthorized},
		{"disabled", disabled, "X-Service-Token", "", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := tt.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
