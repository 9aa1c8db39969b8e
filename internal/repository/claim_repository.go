package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"afyalink/internal/domain"
)

type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.ShaClaim) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ShaClaim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ClaimStatus) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.ShaClaim, error)
	List(ctx context.Context, facilityID string, params domain.PaginationParams) ([]domain.ShaClaim, int64, error)
}

type claimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *domain.ShaClaim) error {
	query := `
		INSERT INTO sha_claims (id, patient_id, sha_number, amount, description, status, facility_id, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		claim.ID, claim.PatientID, claim.ShaNumber, claim.Amount, claim.Description,
		claim.Status, claim.FacilityID, claim.SubmittedBy,
	).Scan(&claim.CreatedAt, &claim.UpdatedAt)
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ShaClaim, error) {
	var claim domain.ShaClaim
	err := r.db.GetContext(ctx, &claim, `SELECT * FROM sha_claims WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ClaimStatus) error {
	query := `UPDATE sha_claims SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *claimRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.ShaClaim, error) {
	var claims []domain.ShaClaim
	err := r.db.SelectContext(ctx, &claims, `
		SELECT * FROM sha_claims
		WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	return claims, err
}

func (r *claimRepository) List(ctx context.Context, facilityID string, params domain.PaginationParams) ([]domain.ShaClaim, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM sha_claims WHERE facility_id = $1`, facilityID); err != nil {
		return nil, 0, err
	}

	var claims []domain.ShaClaim
	err := r.db.SelectContext(ctx, &claims, `
		SELECT * FROM sha_claims
		WHERE facility_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, facilityID, params.PageSize, params.Offset())
	return claims, total, err
}
