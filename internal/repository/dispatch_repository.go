package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"afyalink/internal/domain"
)

type DispatchRepository interface {
	Create(ctx context.Context, call *domain.DispatchCall) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DispatchCall, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DispatchStatus) error
	AssignAmbulance(ctx context.Context, id, ambulanceID uuid.UUID) error
	List(ctx context.Context, facilityID string, status domain.DispatchStatus, params domain.PaginationParams) ([]domain.DispatchCall, int64, error)
}

type dispatchRepository struct {
	db *sqlx.DB
}

func NewDispatchRepository(db *sqlx.DB) DispatchRepository {
	return &dispatchRepository{db: db}
}

func (r *dispatchRepository) Create(ctx context.Context, call *domain.DispatchCall) error {
	query := `
		INSERT INTO dispatch_calls (id, caller_name, caller_phone, location, county_id,
			description, priority, status, facility_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		call.ID, call.CallerName, call.CallerPhone, call.Location, call.CountyID,
		call.Description, call.Priority, call.Status, call.FacilityID, call.CreatedBy,
	).Scan(&call.CreatedAt, &call.UpdatedAt)
}

func (r *dispatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DispatchCall, error) {
	var call domain.DispatchCall
	err := r.db.GetContext(ctx, &call, `SELECT * FROM dispatch_calls WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *dispatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DispatchStatus) error {
	query := `UPDATE dispatch_calls SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *dispatchRepository) AssignAmbulance(ctx context.Context, id, ambulanceID uuid.UUID) error {
	query := `
		UPDATE dispatch_calls
		SET ambulance_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, ambulanceID, domain.DispatchAssigned)
	return err
}

func (r *dispatchRepository) List(ctx context.Context, facilityID string, status domain.DispatchStatus, params domain.PaginationParams) ([]domain.DispatchCall, int64, error) {
	params.Validate()

	if status != "" {
		var total int64
		if err := r.db.GetContext(ctx, &total,
			`SELECT COUNT(*) FROM dispatch_calls WHERE facility_id = $1 AND status = $2`, facilityID, status); err != nil {
			return nil, 0, err
		}

		var calls []domain.DispatchCall
		err := r.db.SelectContext(ctx, &calls, `
			SELECT * FROM dispatch_calls
			WHERE facility_id = $1 AND status = $2
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4`, facilityID, status, params.PageSize, params.Offset())
		return calls, total, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM dispatch_calls WHERE facility_id = $1`, facilityID); err != nil {
		return nil, 0, err
	}

	var calls []domain.DispatchCall
	err := r.db.SelectContext(ctx, &calls, `
		SELECT * FROM dispatch_calls
		WHERE facility_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, facilityID, params.PageSize, params.Offset())
	return calls, total, err
}
