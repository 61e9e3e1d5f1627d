package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Raw JWT kept in Locals by the auth middleware.
const LocRawToken = "raw_token"

// Session cookie names; "session" is accepted for older clients.
const (
	SessionCookie       = "session_token"
	LegacySessionCookie = "session"
)

// GetRawAccessToken returns the session token from, in order:
// 1) Authorization: Bearer <token>
// 2) cookie session_token (or session)
// 3) Locals("raw_token")
func GetRawAccessToken(c *fiber.Ctx) string {
	if fields := strings.Fields(c.Get(fiber.HeaderAuthorization)); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		if tok := strings.Trim(fields[1], "\"'"); tok != "" {
			return tok
		}
	}
	for _, name := range []string{SessionCookie, LegacySessionCookie} {
		if v := strings.TrimSpace(c.Cookies(name)); v != "" {
			return v
		}
	}
	if v, ok := c.Locals(LocRawToken).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
