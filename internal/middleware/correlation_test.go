package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newCorrelationApp(seen *string) *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		*seen = CorrelationIDFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestCorrelationIDGenerated(t *testing.T) {
	var seen string
	app := newCorrelationApp(&seen)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	header := resp.Header.Get(HeaderCorrelationID)
	require.NotEmpty(t, header)
	require.Equal(t, header, seen)
}

func TestCorrelationIDPropagated(t *testing.T) {
	var seen string
	app := newCorrelationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, "req-123", resp.Header.Get(HeaderCorrelationID))
	require.Equal(t, "req-123", seen)
}

func TestCorrelationIDRejectsOversizedHeader(t *testing.T) {
	var seen string
	app := newCorrelationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, strings.Repeat("a", maxCorrelationIDLen+1))
	resp, err := app.Test(req)
	require.NoError(t, err)

	require.Len(t, resp.Header.Get(HeaderCorrelationID), 36)
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/solve", RateLimit("solve", 2, 0), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/solve", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/solve", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
