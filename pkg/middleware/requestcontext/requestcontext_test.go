package requestcontext

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, app *fiber.App, header map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestWithClientIP(t *testing.T) {
	tc := []struct {
		name     string
		config   WithClientIPConfig
		header   map[string]string
		status   int
		expected string
	}{
		{
			name:     "trusted header",
			config:   WithClientIPConfig{TrustedHeader: "X-Real-IP"},
			header:   map[string]string{"X-Real-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"},
			status:   http.StatusOK,
			expected: "1.2.3.4",
		},
		{
			name:     "invalid trusted header falls back to forwarded for",
			config:   WithClientIPConfig{TrustedHeader: "X-Real-IP"},
			header:   map[string]string{"X-Real-IP": "nope", "X-Forwarded-For": "5.6.7.8"},
			status:   http.StatusOK,
			expected: "5.6.7.8",
		},
		{
			name:     "walks back past trusted proxies",
			config:   WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			header:   map[string]string{"X-Forwarded-For": "1.1.1.1, 9.9.9.9, 10.0.0.2, 10.0.0.1"},
			status:   http.StatusOK,
			expected: "9.9.9.9",
		},
		{
			name:     "every hop trusted",
			config:   WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			header:   map[string]string{"X-Forwarded-For": "10.0.0.3, 10.0.0.1"},
			status:   http.StatusOK,
			expected: "10.0.0.3",
		},
		{
			name:     "first forwarded address without proxy list",
			header:   map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"},
			status:   http.StatusOK,
			expected: "1.1.1.1",
		},
		{
			name:     "reject malformed",
			config:   WithClientIPConfig{EnableRejectMalformedRequest: true},
			header:   map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"},
			status:   http.StatusForbidden,
			expected: `{"error":"not allowed to access"}`,
		},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(New(WithClientIP(tt.config)))
			app.Get("/", func(c *fiber.Ctx) error {
				return c.SendString(GetClientIP(c.UserContext()))
			})

			status, body := serve(t, app, tt.header)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.expected, body)
		})
	}
}

func TestWithRequestId(t *testing.T) {
	app := fiber.New()
	app.Use(New(WithRequestId()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestId(c.UserContext()))
	})

	_, body := serve(t, app, map[string]string{fiber.HeaderXRequestID: "req-1"})
	assert.Equal(t, "req-1", body)

	_, body = serve(t, app, nil)
	assert.NotEmpty(t, body)
}
