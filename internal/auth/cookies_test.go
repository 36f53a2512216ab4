package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieFrom(t *testing.T, handler fiber.Handler) *http.Cookie {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestCookieWriterClearMatchesSetAttributes(t *testing.T) {
	cases := []struct {
		sameSite string
		want     http.SameSite
	}{
		{"", http.SameSiteLaxMode},
		{fiber.CookieSameSiteStrictMode, http.SameSiteStrictMode},
		{fiber.CookieSameSiteNoneMode, http.SameSiteNoneMode},
	}
	for _, tc := range cases {
		w := CookieWriter{Name: "token", Secure: true, MaxAge: time.Hour, SameSite: tc.sameSite}

		set := cookieFrom(t, func(c *fiber.Ctx) error {
			w.Set(c, "value", time.Now().Add(time.Hour))
			return nil
		})
		cleared := cookieFrom(t, func(c *fiber.Ctx) error {
			w.Clear(c)
			return nil
		})

		assert.Equal(t, tc.want, set.SameSite, "set %q", tc.sameSite)
		assert.Equal(t, set.SameSite, cleared.SameSite, "clear %q", tc.sameSite)
		assert.Equal(t, set.Path, cleared.Path)
		assert.Equal(t, set.Secure, cleared.Secure)
		assert.True(t, cleared.HttpOnly)
		assert.Empty(t, cleared.Value)
		assert.True(t, cleared.Expires.Before(time.Now()))
	}
}
