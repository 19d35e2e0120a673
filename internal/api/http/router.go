package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicworks/waste-complaints/internal/api/http/handlers"
	"github.com/civicworks/waste-complaints/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Pages             *handlers.PagesHandler
	Accounts          *handlers.AccountsHandler
	Complaints        *handlers.ComplaintsHandler
	Staff             *handlers.StaffHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. The route surface mirrors the public
// site: unauthenticated entry pages, customer pages behind a session, and
// staff pages behind a session plus the staff role. Gates are attached per
// route so each path carries exactly the checks it needs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	session := cfg.SessionMiddleware.Handle
	customer := auth.RequireCustomer()
	staff := auth.RequireStaff()

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Pages.Root)
	app.Get("/loginForm", cfg.Pages.LoginForm)
	app.Get("/unauthorized", cfg.Pages.Unauthorized)
	app.Post("/signup", cfg.Accounts.Signup)
	app.Post("/signin", cfg.Accounts.Signin)

	app.Get("/logout", session, cfg.Accounts.Logout)
	app.Get("/about", session, cfg.Pages.About)
	app.Get("/contact", session, cfg.Pages.Contact)
	app.Get("/blogging", session, cfg.Pages.Blogging)
	app.Get("/fileComplaint", session, cfg.Pages.FileComplaint)

	app.Get("/index", session, customer, cfg.Pages.Index)
	app.Get("/blog", session, customer, cfg.Complaints.ListOwn)
	app.Post("/registerComplain", session, customer, cfg.Complaints.Register)

	app.Get("/mcindex", session, staff, cfg.Pages.MCIndex)
	app.Get("/mcblog", session, staff, cfg.Pages.MCBlog)
	app.Get("/mccontact", session, staff, cfg.Pages.MCContact)
	app.Get("/mccomplaints", session, staff, cfg.Staff.RegionComplaints)
	app.Post("/updateStatus", session, staff, cfg.Staff.UpdateStatus)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"page": "notfound"})
	})
}
