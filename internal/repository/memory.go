package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civicworks/waste-complaints/internal/domain"
)

// Memory is an in-process store backing both repositories, used when no
// POSTGRES_DSN is configured and by unit tests. It reports missing rows as
// pgx.ErrNoRows so callers handle both backends identically. Records are
// copied on the way in and out; concurrent writers may interleave but can
// never corrupt a stored record.
type Memory struct {
	mu         sync.RWMutex
	accounts   map[string]domain.Account
	complaints map[string]domain.Complaint
	// filing order per owner; ids only
	byOwner map[string][]string
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts:   make(map[string]domain.Account),
		complaints: make(map[string]domain.Complaint),
		byOwner:    make(map[string][]string),
	}
}

// Accounts returns the account repository view of the store.
func (m *Memory) Accounts() AccountRepository {
	return &memoryAccounts{store: m}
}

// Complaints returns the complaint repository view of the store.
func (m *Memory) Complaints() ComplaintRepository {
	return &memoryComplaints{store: m}
}

type memoryAccounts struct {
	store *Memory
}

func (r *memoryAccounts) Create(_ context.Context, account *domain.Account) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[account.Email]; exists {
		return ErrDuplicateAccount
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	m.accounts[account.Email] = *account
	return nil
}

func (r *memoryAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m := r.store
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &account, nil
}

func (r *memoryAccounts) ListByRegion(_ context.Context, regionCode int) ([]domain.Account, error) {
	m := r.store
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Account
	for _, account := range m.accounts {
		if account.RegionCode == regionCode {
			result = append(result, account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

type memoryComplaints struct {
	store *Memory
}

func (r *memoryComplaints) Create(_ context.Context, complaint *domain.Complaint) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.complaints[complaint.ID]; exists {
		return errors.New("complaint id already exists")
	}
	now := time.Now()
	complaint.Version = 1
	complaint.FiledAt = now
	complaint.UpdatedAt = now
	m.complaints[complaint.ID] = *complaint
	m.byOwner[complaint.OwnerEmail] = append(m.byOwner[complaint.OwnerEmail], complaint.ID)
	return nil
}

func (r *memoryComplaints) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	m := r.store
	m.mu.RLock()
	defer m.mu.RUnlock()
	complaint, ok := m.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (r *memoryComplaints) ListByOwner(_ context.Context, ownerEmail string) ([]domain.Complaint, error) {
	m := r.store
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ownerComplaintsLocked(ownerEmail), nil
}

// ListByRegion concatenates complaint lists of all accounts in the region,
// owners ordered by email, each owner's complaints in filing order.
func (r *memoryComplaints) ListByRegion(_ context.Context, regionCode int) ([]domain.Complaint, error) {
	m := r.store
	m.mu.RLock()
	defer m.mu.RUnlock()
	var owners []string
	for email, account := range m.accounts {
		if account.RegionCode == regionCode {
			owners = append(owners, email)
		}
	}
	sort.Strings(owners)
	var result []domain.Complaint
	for _, email := range owners {
		result = append(result, m.ownerComplaintsLocked(email)...)
	}
	return result, nil
}

func (r *memoryComplaints) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	complaint, ok := m.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	complaint.Status = status
	complaint.Version++
	complaint.UpdatedAt = time.Now()
	m.complaints[id] = complaint
	return nil
}

func (m *Memory) ownerComplaintsLocked(ownerEmail string) []domain.Complaint {
	ids := m.byOwner[ownerEmail]
	result := make([]domain.Complaint, 0, len(ids))
	for _, id := range ids {
		if complaint, ok := m.complaints[id]; ok {
			result = append(result, complaint)
		}
	}
	return result
}
