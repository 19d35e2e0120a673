package domain

import (
	"fmt"
	"time"
)

// ComplaintStatus enumerates recognised complaint labels. Staff may
// overwrite any status with any other; only membership is validated.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted  ComplaintStatus = "submitted"
	ComplaintStatusInReview   ComplaintStatus = "in_review"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

// ParseComplaintStatus validates a raw status label, returning the canonical
// constant so callers never retain transport-owned bytes.
func ParseComplaintStatus(raw string) (ComplaintStatus, error) {
	switch ComplaintStatus(raw) {
	case ComplaintStatusSubmitted:
		return ComplaintStatusSubmitted, nil
	case ComplaintStatusInReview:
		return ComplaintStatusInReview, nil
	case ComplaintStatusInProgress:
		return ComplaintStatusInProgress, nil
	case ComplaintStatusResolved:
		return ComplaintStatusResolved, nil
	case ComplaintStatusRejected:
		return ComplaintStatusRejected, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

// Complaint is a first-class record owned by exactly one account. IDs are
// unique across the whole store, so status updates resolve by id alone.
type Complaint struct {
	ID          string
	OwnerEmail  string
	Title       string
	Description string
	Status      ComplaintStatus
	Version     int64
	FiledAt     time.Time
	UpdatedAt   time.Time
}
