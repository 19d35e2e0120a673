package dto

import (
	"time"

	"github.com/civicworks/waste-complaints/internal/domain"
)

// FileComplaintRequest payload for filing a complaint.
type FileComplaintRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// UpdateStatusRequest payload for staff status changes. Field names follow
// the triage form.
type UpdateStatusRequest struct {
	ComplaintID string `json:"complaintId" form:"complaintId"`
	Status      string `json:"status" form:"status"`
}

// ComplaintResponse response shape for complaint listings.
type ComplaintResponse struct {
	ID          string                 `json:"id"`
	OwnerEmail  string                 `json:"owner_email"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      domain.ComplaintStatus `json:"status"`
	FiledAt     time.Time              `json:"filed_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		OwnerEmail:  c.OwnerEmail,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		FiledAt:     c.FiledAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewComplaintResponses maps a slice of complaints.
func NewComplaintResponses(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, NewComplaintResponse(&complaints[i]))
	}
	return items
}
