package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/events"
	"github.com/civicworks/waste-complaints/internal/repository"
	apperrors "github.com/civicworks/waste-complaints/pkg/util"
)

// ComplaintService coordinates the complaint lifecycle: filing by customers
// and status triage by municipal staff.
type ComplaintService struct {
	accounts   repository.AccountRepository
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles requirements for the complaint service.
type ComplaintDependencies struct {
	AccountRepo   repository.AccountRepository
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		accounts:   deps.AccountRepo,
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
	}
}

// FileComplaint appends a new complaint with status submitted to the owning
// account. The insert is a single statement, so concurrent filings by the
// same account never lose appends.
func (s *ComplaintService) FileComplaint(ctx context.Context, ownerEmail, title, description string) (*domain.Complaint, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", map[string]any{"email": ownerEmail})
		}
		return nil, apperrors.MapError(err)
	}

	complaint := &domain.Complaint{
		ID:          uuid.NewString(),
		OwnerEmail:  account.Email,
		Title:       title,
		Description: description,
		Status:      domain.ComplaintStatusSubmitted,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintFiled,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{Email: account.Email, Role: account.Role},
		Payload: events.ComplaintFiledPayload{
			OwnerEmail: account.Email,
			RegionCode: account.RegionCode,
			Title:      complaint.Title,
		},
	})
	return complaint, nil
}

// ListComplaints returns the owner's complaints in filing order.
func (s *ComplaintService) ListComplaints(ctx context.Context, ownerEmail string) ([]domain.Complaint, error) {
	if _, err := s.accounts.GetByEmail(ctx, ownerEmail); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", map[string]any{"email": ownerEmail})
		}
		return nil, apperrors.MapError(err)
	}
	complaints, err := s.complaints.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// UpdateStatus overwrites a complaint's status on behalf of municipal staff.
// The requester must be staff and share the owning account's region. The
// write itself is a single atomic statement; two concurrent updates to the
// same complaint leave either value, never a partial record.
func (s *ComplaintService) UpdateStatus(ctx context.Context, complaintID string, newStatus domain.ComplaintStatus, requester domain.Identity) error {
	if requester.Role != domain.RoleMunicipalStaff {
		return apperrors.NewForbidden("municipal staff required")
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return apperrors.MapError(err)
	}

	owner, err := s.accounts.GetByEmail(ctx, complaint.OwnerEmail)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return apperrors.MapError(err)
	}
	if owner.RegionCode != requester.RegionCode {
		return apperrors.NewForbidden("complaint outside your region")
	}

	if err := s.complaints.UpdateStatus(ctx, complaintID, newStatus); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaintID,
		Actor:       events.Actor{Email: requester.Email, Role: requester.Role},
		Payload: events.ComplaintStatusChangedPayload{
			OwnerEmail: owner.Email,
			OldStatus:  complaint.Status,
			NewStatus:  newStatus,
		},
	})
	return nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
