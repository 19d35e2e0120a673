package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/civicworks/waste-complaints/internal/api/dto"
	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/service"
)

// StaffHandler exposes the staff triage endpoints.
type StaffHandler struct {
	complaints *service.ComplaintService
	regions    *service.RegionService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(complaintService *service.ComplaintService, regionService *service.RegionService) *StaffHandler {
	return &StaffHandler{complaints: complaintService, regions: regionService}
}

// RegionComplaints handles GET /mccomplaints: every complaint filed in the
// staff member's jurisdiction.
func (h *StaffHandler) RegionComplaints(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	complaints, err := h.regions.AggregateByRegion(c.UserContext(), identity.RegionCode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponses(complaints)})
}

// UpdateStatus handles POST /updateStatus.
func (h *StaffHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.ComplaintID = utils.CopyString(req.ComplaintID)
	if req.ComplaintID == "" {
		return fiber.NewError(http.StatusBadRequest, "complaintId required")
	}
	status, err := domain.ParseComplaintStatus(req.Status)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.complaints.UpdateStatus(c.UserContext(), req.ComplaintID, status, *identity); err != nil {
		return err
	}
	return c.Redirect("/mccomplaints", fiber.StatusSeeOther)
}
