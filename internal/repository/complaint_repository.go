package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicworks/waste-complaints/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence. Complaints are
// first-class rows keyed by a globally unique id with an owner foreign key,
// so locating an owner never scans accounts.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Complaint, error)
	// ListByRegion returns every complaint whose owner lives in the region,
	// ordered by owner email then filing time.
	ListByRegion(ctx context.Context, regionCode int) ([]domain.Complaint, error)
	// UpdateStatus overwrites the status in a single atomic statement and
	// bumps the record version. Returns pgx.ErrNoRows for an unknown id.
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, owner_email, title, description, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING version, filed_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		complaint.ID,
		complaint.OwnerEmail,
		complaint.Title,
		complaint.Description,
		complaint.Status,
	).Scan(&complaint.Version, &complaint.FiledAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, owner_email, title, description, status, version, filed_at, updated_at
        FROM complaints WHERE id=$1`

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.OwnerEmail,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Version,
		&complaint.FiledAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Complaint, error) {
	const query = `
        SELECT id, owner_email, title, description, status, version, filed_at, updated_at
        FROM complaints WHERE owner_email=$1 ORDER BY filed_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListByRegion(ctx context.Context, regionCode int) ([]domain.Complaint, error) {
	const query = `
        SELECT c.id, c.owner_email, c.title, c.description, c.status, c.version, c.filed_at, c.updated_at
        FROM complaints c
        JOIN accounts a ON a.email = c.owner_email
        WHERE a.region_code=$1
        ORDER BY c.owner_email ASC, c.filed_at ASC, c.id ASC`

	rows, err := r.pool.Query(ctx, query, regionCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	const query = `
        UPDATE complaints SET status=$1, version=version+1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.OwnerEmail,
			&complaint.Title,
			&complaint.Description,
			&complaint.Status,
			&complaint.Version,
			&complaint.FiledAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
