package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CredentialSource names the transport a token was read from.
type CredentialSource string

const (
	SourceHeader CredentialSource = "header"
	SourceCookie CredentialSource = "cookie"
	SourceQuery  CredentialSource = "query"
)

// Credential is a candidate token located on a request.
type Credential struct {
	Token  string
	Source CredentialSource
}

// CredentialLocator extracts at most one token from a request, trying the
// Authorization header, then the cookie, then the query string.
type CredentialLocator struct {
	CookieName string
	QueryParam string
}

// Locate returns the first non-empty credential. A malformed Authorization
// header counts as absent.
func (l CredentialLocator) Locate(c *fiber.Ctx) (Credential, bool) {
	if token := bearerToken(c.Get(fiber.HeaderAuthorization)); token != "" {
		return Credential{Token: token, Source: SourceHeader}, true
	}
	if l.CookieName != "" {
		if token := strings.TrimSpace(c.Cookies(l.CookieName)); token != "" {
			return Credential{Token: token, Source: SourceCookie}, true
		}
	}
	if l.QueryParam != "" {
		if token := strings.TrimSpace(c.Query(l.QueryParam)); token != "" {
			return Credential{Token: token, Source: SourceQuery}, true
		}
	}
	return Credential{}, false
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
