package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieWriter sets and clears an httpOnly credential cookie.
type CookieWriter struct {
	Name     string
	Secure   bool
	MaxAge   time.Duration
	SameSite string
}

// Set writes the cookie with max-age matching the configured lifetime.
func (w CookieWriter) Set(c *fiber.Ctx, value string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     w.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(w.MaxAge.Seconds()),
		Expires:  expiresAt,
		Secure:   w.Secure,
		HTTPOnly: true,
		SameSite: w.sameSite(),
	})
}

// Clear expires the cookie on the client.
func (w CookieWriter) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     w.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   w.Secure,
		HTTPOnly: true,
		SameSite: w.sameSite(),
	})
}

func (w CookieWriter) sameSite() string {
	if w.SameSite == "" {
		return fiber.CookieSameSiteLaxMode
	}
	return w.SameSite
}
