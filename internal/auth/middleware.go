package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/domain"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

const (
	principalKey = "auth_principal"
	sessionKey   = "auth_session"
)

// SessionMiddleware resolves the session cookie into a principal for every
// request. Requests without a valid session pass through as anonymous; the
// role guards decide whether that is acceptable.
type SessionMiddleware struct {
	sessions *SessionManager
	cookie   config.SessionConfig
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions *SessionManager, cookie config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookie: cookie}
}

// Handle loads the principal for downstream handlers.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sessionID := c.Cookies(m.cookie.CookieName)
	if sessionID == "" {
		return c.Next()
	}

	principal, session, err := m.sessions.Resolve(c.UserContext(), sessionID)
	if err != nil {
		// Dead session: drop the cookie and continue anonymously.
		m.ClearCookie(c)
		return c.Next()
	}

	c.Locals(principalKey, principal)
	c.Locals(sessionKey, session)
	if session.Permanent {
		m.SetCookie(c, session)
	}
	return c.Next()
}

// SessionID returns the raw cookie value without resolving it. Login uses
// it to replace whatever session the cookie pointed at.
func (m *SessionMiddleware) SessionID(c *fiber.Ctx) string {
	return c.Cookies(m.cookie.CookieName)
}

// SetCookie writes the session cookie for an established session.
func (m *SessionMiddleware) SetCookie(c *fiber.Ctx, session *Session) {
	cookie := &fiber.Cookie{
		Name:     m.cookie.CookieName,
		Value:    session.ID,
		HTTPOnly: true,
		Secure:   m.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if session.Permanent {
		cookie.Expires = session.ExpiresAt
	}
	c.Cookie(cookie)
}

// ClearCookie expires the session cookie on the client.
func (m *SessionMiddleware) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}

// SessionFromContext retrieves the resolved session, if any.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	return session, ok
}

// RequireAuthenticated admits any logged-in principal.
func RequireAuthenticated() fiber.Handler {
	return requireRole(AnyRole)
}

// RequireEmployee admits employee principals only.
func RequireEmployee() fiber.Handler {
	return requireRole(domain.RoleEmployee)
}

// RequireAdmin admits admin principals only.
func RequireAdmin() fiber.Handler {
	return requireRole(domain.RoleAdmin)
}

func requireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal, required); err != nil {
			return apperrors.MapError(err)
		}
		return c.Next()
	}
}
