package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"afyalink/internal/domain"
)

type AmbulanceRepository interface {
	Create(ctx context.Context, amb *domain.Ambulance) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambulance, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AmbulanceStatus, location *string) error
	ListByFacility(ctx context.Context, facilityID string) ([]domain.Ambulance, error)
	ListAvailable(ctx context.Context, facilityID string) ([]domain.Ambulance, error)
}

type ambulanceRepository struct {
	db *sqlx.DB
}

func NewAmbulanceRepository(db *sqlx.DB) AmbulanceRepository {
	return &ambulanceRepository{db: db}
}

func (r *ambulanceRepository) Create(ctx context.Context, amb *domain.Ambulance) error {
	query := `
		INSERT INTO ambulances (id, call_sign, plate, status, facility_id, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		amb.ID, amb.CallSign, amb.Plate, amb.Status, amb.FacilityID, amb.Location,
	).Scan(&amb.CreatedAt, &amb.UpdatedAt)
}

func (r *ambulanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambulance, error) {
	var amb domain.Ambulance
	err := r.db.GetContext(ctx, &amb, `SELECT * FROM ambulances WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &amb, nil
}

func (r *ambulanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AmbulanceStatus, location *string) error {
	query := `
		UPDATE ambulances
		SET status = $2, location = COALESCE($3, location), updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, location)
	return err
}

func (r *ambulanceRepository) ListByFacility(ctx context.Context, facilityID string) ([]domain.Ambulance, error) {
	var ambulances []domain.Ambulance
	err := r.db.SelectContext(ctx, &ambulances, `
		SELECT * FROM ambulances
		WHERE facility_id = $1
		ORDER BY call_sign`, facilityID)
	return ambulances, err
}

func (r *ambulanceRepository) ListAvailable(ctx context.Context, facilityID string) ([]domain.Ambulance, error) {
	var ambulances []domain.Ambulance
	err := r.db.SelectContext(ctx, &ambulances, `
		SELECT * FROM ambulances
		WHERE facility_id = $1 AND status = $2
		ORDER BY call_sign`, facilityID, domain.AmbulanceAvailable)
	return ambulances, err
}
