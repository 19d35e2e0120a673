package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/waste-complaints/internal/domain"
)

func seedAccount(t *testing.T, accounts AccountRepository, email string, region int, role domain.Role) {
	t.Helper()
	err := accounts.Create(context.Background(), &domain.Account{
		Email:          email,
		CredentialHash: "hash",
		RegionCode:     region,
		Role:           role,
	})
	require.NoError(t, err)
}

func seedComplaint(t *testing.T, complaints ComplaintRepository, id, owner, title string) {
	t.Helper()
	err := complaints.Create(context.Background(), &domain.Complaint{
		ID:          id,
		OwnerEmail:  owner,
		Title:       title,
		Description: "desc",
		Status:      domain.ComplaintStatusSubmitted,
	})
	require.NoError(t, err)
}

func TestMemoryAccounts(t *testing.T) {
	ctx := context.Background()
	accounts := NewMemory().Accounts()

	seedAccount(t, accounts, "a@x.com", 100, domain.RoleCustomer)

	err := accounts.Create(ctx, &domain.Account{Email: "a@x.com", RegionCode: 200, Role: domain.RoleCustomer})
	require.Error(t, err)

	// the original record survives a rejected duplicate
	account, err := accounts.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, 100, account.RegionCode)

	_, err = accounts.GetByEmail(ctx, "missing@x.com")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryAccountsListByRegion(t *testing.T) {
	ctx := context.Background()
	accounts := NewMemory().Accounts()

	seedAccount(t, accounts, "c@x.com", 100, domain.RoleCustomer)
	seedAccount(t, accounts, "a@x.com", 100, domain.RoleCustomer)
	seedAccount(t, accounts, "b@x.com", 200, domain.RoleCustomer)

	inRegion, err := accounts.ListByRegion(ctx, 100)
	require.NoError(t, err)
	require.Len(t, inRegion, 2)
	require.Equal(t, "a@x.com", inRegion[0].Email)
	require.Equal(t, "c@x.com", inRegion[1].Email)
}

func TestMemoryComplaintsFilingOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	seedAccount(t, store.Accounts(), "a@x.com", 100, domain.RoleCustomer)

	complaints := store.Complaints()
	seedComplaint(t, complaints, "c1", "a@x.com", "first")
	seedComplaint(t, complaints, "c2", "a@x.com", "second")
	seedComplaint(t, complaints, "c3", "a@x.com", "third")

	listed, err := complaints.ListByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, []string{"c1", "c2", "c3"}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
}

func TestMemoryComplaintsListByRegion(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	seedAccount(t, store.Accounts(), "b@x.com", 100, domain.RoleCustomer)
	seedAccount(t, store.Accounts(), "a@x.com", 100, domain.RoleCustomer)
	seedAccount(t, store.Accounts(), "z@y.com", 200, domain.RoleCustomer)

	complaints := store.Complaints()
	seedComplaint(t, complaints, "b1", "b@x.com", "bin overflow")
	seedComplaint(t, complaints, "a1", "a@x.com", "pothole")
	seedComplaint(t, complaints, "a2", "a@x.com", "litter")
	seedComplaint(t, complaints, "z1", "z@y.com", "other region")

	region100, err := complaints.ListByRegion(ctx, 100)
	require.NoError(t, err)
	require.Len(t, region100, 3)
	// owners ordered by email, filing order within an owner
	require.Equal(t, []string{"a1", "a2", "b1"}, []string{region100[0].ID, region100[1].ID, region100[2].ID})

	region200, err := complaints.ListByRegion(ctx, 200)
	require.NoError(t, err)
	require.Len(t, region200, 1)
	require.Equal(t, "z1", region200[0].ID)
}

func TestMemoryComplaintsUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	seedAccount(t, store.Accounts(), "a@x.com", 100, domain.RoleCustomer)

	complaints := store.Complaints()
	seedComplaint(t, complaints, "c1", "a@x.com", "pothole")

	require.NoError(t, complaints.UpdateStatus(ctx, "c1", domain.ComplaintStatusResolved))

	updated, err := complaints.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusResolved, updated.Status)
	require.Equal(t, int64(2), updated.Version)

	err = complaints.UpdateStatus(ctx, "missing", domain.ComplaintStatusResolved)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryComplaintsConcurrentStatusUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	seedAccount(t, store.Accounts(), "a@x.com", 100, domain.RoleCustomer)

	complaints := store.Complaints()
	seedComplaint(t, complaints, "c1", "a@x.com", "pothole")

	statuses := []domain.ComplaintStatus{
		domain.ComplaintStatusInReview,
		domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved,
		domain.ComplaintStatusRejected,
	}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(status domain.ComplaintStatus) {
			defer wg.Done()
			_ = complaints.UpdateStatus(ctx, "c1", status)
		}(statuses[i%len(statuses)])
	}
	wg.Wait()

	// either value may win, but the record must stay structurally intact
	final, err := complaints.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Contains(t, statuses, final.Status)
	require.Equal(t, "pothole", final.Title)
	require.Equal(t, int64(41), final.Version)
}
