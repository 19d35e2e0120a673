package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicworks/waste-complaints/internal/auth"
)

// PagesHandler serves the page endpoints of the original site. Template
// rendering is out of scope, so each returns a minimal page payload; the
// route surface and its gating are what matter here.
type PagesHandler struct{}

// NewPagesHandler constructs handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Root GET / — the signup form entry point.
func (h *PagesHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "signup"})
}

// LoginForm GET /loginForm.
func (h *PagesHandler) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "login"})
}

// Unauthorized GET /unauthorized — the wrong-role landing page.
func (h *PagesHandler) Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"page": "unauthorized"})
}

// Index GET /index — customer dashboard.
func (h *PagesHandler) Index(c *fiber.Ctx) error {
	return h.page(c, "index")
}

// About GET /about.
func (h *PagesHandler) About(c *fiber.Ctx) error {
	return h.page(c, "about")
}

// Contact GET /contact.
func (h *PagesHandler) Contact(c *fiber.Ctx) error {
	return h.page(c, "contact")
}

// Blogging GET /blogging.
func (h *PagesHandler) Blogging(c *fiber.Ctx) error {
	return h.page(c, "blogging")
}

// FileComplaint GET /fileComplaint — complaint filing form.
func (h *PagesHandler) FileComplaint(c *fiber.Ctx) error {
	return h.page(c, "fileComplaint")
}

// MCIndex GET /mcindex — staff dashboard.
func (h *PagesHandler) MCIndex(c *fiber.Ctx) error {
	return h.page(c, "mcindex")
}

// MCBlog GET /mcblog.
func (h *PagesHandler) MCBlog(c *fiber.Ctx) error {
	return h.page(c, "mcblog")
}

// MCContact GET /mccontact.
func (h *PagesHandler) MCContact(c *fiber.Ctx) error {
	return h.page(c, "mccontact")
}

func (h *PagesHandler) page(c *fiber.Ctx, name string) error {
	payload := fiber.Map{"page": name}
	if identity, ok := auth.IdentityFromContext(c); ok {
		payload["email"] = identity.Email
		payload["role"] = identity.Role
	}
	return c.JSON(payload)
}
