package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/civicworks/waste-complaints/internal/api/dto"
	"github.com/civicworks/waste-complaints/internal/auth"
	"github.com/civicworks/waste-complaints/internal/config"
	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/service"
)

// AccountsHandler exposes signup, signin and logout.
type AccountsHandler struct {
	accounts *service.AccountService
	session  config.SessionConfig
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService, sessionCfg config.SessionConfig) *AccountsHandler {
	return &AccountsHandler{accounts: accountService, session: sessionCfg}
}

// Signup handles POST /signup.
func (h *AccountsHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	// Parsed strings alias fasthttp's reused request buffer and are only
	// valid within this handler; copy them before they escape.
	req.Email = utils.CopyString(req.Email)
	req.Credential = utils.CopyString(req.Credential)
	if req.Email == "" || req.Credential == "" {
		return fiber.NewError(http.StatusBadRequest, "email and credential required")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.accounts.Signup(c.UserContext(), req.Email, req.Credential, req.RegionCode, role); err != nil {
		return err
	}
	return c.Redirect(auth.LoginFormPath, fiber.StatusSeeOther)
}

// Signin handles POST /signin. On success the session token is bound to a
// cookie and the caller is sent to the dashboard for their role.
func (h *AccountsHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = utils.CopyString(req.Email)
	req.Credential = utils.CopyString(req.Credential)
	if req.Email == "" || req.Credential == "" {
		return fiber.NewError(http.StatusBadRequest, "email and credential required")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	identity, token, err := h.accounts.SignIn(c.UserContext(), req.Email, req.Credential, role)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.session.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if identity.Role == domain.RoleMunicipalStaff {
		return c.Redirect("/mcindex", fiber.StatusSeeOther)
	}
	return c.Redirect("/index", fiber.StatusSeeOther)
}

// Logout handles GET /logout. Destroying an already-destroyed session is
// fine; the redirect is the same either way.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.session.CookieName)
	if err := h.accounts.SignOut(c.UserContext(), token); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(auth.LoginFormPath, fiber.StatusSeeOther)
}
