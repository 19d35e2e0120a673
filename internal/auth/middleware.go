package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/session"
	apperrors "github.com/civicworks/waste-complaints/pkg/util"
)

const identityKey = "auth_identity"

// Paths browsers are sent to when a gate rejects the request. An
// unauthenticated caller is told to log in; an authenticated caller with
// the wrong role gets a distinct unauthorized outcome.
const (
	LoginFormPath    = "/loginForm"
	UnauthorizedPath = "/unauthorized"
)

// SessionMiddleware resolves the session cookie and loads the identity
// snapshot for protected routes.
type SessionMiddleware struct {
	sessions   session.Store
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions session.Store, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookieName: cookieName}
}

// Handle enforces authentication for protected routes. Requests without a
// live session are redirected to the login form, never served.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return c.Redirect(LoginFormPath, fiber.StatusSeeOther)
	}

	identity, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		return apperrors.MapError(err)
	}
	if identity == nil {
		return c.Redirect(LoginFormPath, fiber.StatusSeeOther)
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// RequireCustomer gates customer-only routes.
func RequireCustomer() fiber.Handler {
	return requireRole(domain.RoleCustomer)
}

// RequireStaff gates staff-only routes.
func RequireStaff() fiber.Handler {
	return requireRole(domain.RoleMunicipalStaff)
}

func requireRole(expected domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.Redirect(LoginFormPath, fiber.StatusSeeOther)
		}
		if identity.Role != expected {
			return c.Redirect(UnauthorizedPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
