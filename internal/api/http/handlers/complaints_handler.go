package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/civicworks/waste-complaints/internal/api/dto"
	"github.com/civicworks/waste-complaints/internal/auth"
	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/service"
)

// ComplaintsHandler exposes customer complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// ListOwn handles GET /blog: the caller's own complaints in filing order.
func (h *ComplaintsHandler) ListOwn(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	complaints, err := h.complaints.ListComplaints(c.UserContext(), identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponses(complaints)})
}

// Register handles POST /registerComplain.
func (h *ComplaintsHandler) Register(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.FileComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	// Copy out of fasthttp's reused request buffer before the store keeps them.
	req.Title = utils.CopyString(req.Title)
	req.Description = utils.CopyString(req.Description)

	if _, err := h.complaints.FileComplaint(c.UserContext(), identity.Email, req.Title, req.Description); err != nil {
		return err
	}
	return c.Redirect("/fileComplaint", fiber.StatusSeeOther)
}

func requireIdentity(c *fiber.Ctx) (*domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, fiber.NewError(http.StatusUnauthorized, "session required")
	}
	return identity, nil
}
