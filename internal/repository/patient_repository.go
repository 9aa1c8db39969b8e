package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"afyalink/internal/domain"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)
	GetByShaNumber(ctx context.Context, shaNumber string) (*domain.Patient, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, facilityID string, params domain.PaginationParams) ([]domain.Patient, int64, error)
}

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	query := `
		INSERT INTO patients (id, first_name, last_name, national_id, sha_number, date_of_birth,
			gender, phone, triage_level, facility_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		patient.ID, patient.FirstName, patient.LastName, patient.NationalID, patient.ShaNumber,
		patient.DateOfBirth, patient.Gender, patient.Phone, patient.TriageLevel,
		patient.FacilityID, patient.CreatedBy,
	).Scan(&patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	var patient domain.Patient
	query := `SELECT * FROM patients WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) GetByShaNumber(ctx context.Context, shaNumber string) (*domain.Patient, error) {
	var patient domain.Patient
	query := `SELECT * FROM patients WHERE sha_number = $1 AND deleted_at IS NULL`
	err := r.db.GetContext(ctx, &patient, query, shaNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $2, last_name = $3, national_id = $4, sha_number = $5,
			phone = $6, triage_level = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		patient.ID, patient.FirstName, patient.LastName, patient.NationalID,
		patient.ShaNumber, patient.Phone, patient.TriageLevel,
	).Scan(&patient.UpdatedAt)
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE patients SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *patientRepository) List(ctx context.Context, facilityID string, params domain.PaginationParams) ([]domain.Patient, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM patients WHERE facility_id = $1 AND deleted_at IS NULL`, facilityID); err != nil {
		return nil, 0, err
	}

	var patients []domain.Patient
	err := r.db.SelectContext(ctx, &patients, `
		SELECT * FROM patients
		WHERE facility_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, facilityID, params.PageSize, params.Offset())
	return patients, total, err
}
