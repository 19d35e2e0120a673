package service

import (
	"context"

	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/repository"
	apperrors "github.com/civicworks/waste-complaints/pkg/util"
)

// RegionService is the read path behind the staff dashboard: complaints
// collected across every account of one jurisdiction.
type RegionService struct {
	complaints repository.ComplaintRepository
}

// NewRegionService constructs the service.
func NewRegionService(complaints repository.ComplaintRepository) *RegionService {
	return &RegionService{complaints: complaints}
}

// AggregateByRegion concatenates the complaint lists of all accounts in the
// region. Owners are ordered by email and each owner's complaints keep
// filing order, so the result is reproducible. Complaints from other
// regions never appear.
func (s *RegionService) AggregateByRegion(ctx context.Context, regionCode int) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListByRegion(ctx, regionCode)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if complaints == nil {
		complaints = []domain.Complaint{}
	}
	return complaints, nil
}
