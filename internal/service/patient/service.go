package patient

import (
	"context"

	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/repository"
	"afyalink/internal/service/audit"
)

type Service interface {
	Create(ctx context.Context, actor audit.Actor, input domain.CreatePatientInput) (*domain.Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)
	GetByShaNumber(ctx context.Context, shaNumber string) (*domain.Patient, error)
	Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input domain.UpdatePatientInput) (*domain.Patient, error)
	Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error
	List(ctx context.Context, facilityID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Patient], error)
}

type service struct {
	patientRepo repository.PatientRepository
	sink        *audit.Sink
}

func NewService(patientRepo repository.PatientRepository, sink *audit.Sink) Service {
	return &service{
		patientRepo: patientRepo,
		sink:        sink,
	}
}

func (s *service) Create(ctx context.Context, actor audit.Actor, input domain.CreatePatientInput) (*domain.Patient, error) {
	patient := &domain.Patient{
		ID:          uuid.New(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		NationalID:  input.NationalID,
		ShaNumber:   input.ShaNumber,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		Phone:       input.Phone,
		TriageLevel: input.TriageLevel,
		FacilityID:  input.FacilityID,
		CreatedBy:   actor.ID,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.sink.PatientCreated(actor, patient)
	return patient, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}
	return patient, nil
}

func (s *service) GetByShaNumber(ctx context.Context, shaNumber string) (*domain.Patient, error) {
	patient, err := s.patientRepo.GetByShaNumber(ctx, shaNumber)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}
	return patient, nil
}

func (s *service) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input domain.UpdatePatientInput) (*domain.Patient, error) {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if input.FirstName != nil {
		changes["first_name"] = map[string]string{"from": patient.FirstName, "to": *input.FirstName}
		patient.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		changes["last_name"] = map[string]string{"from": patient.LastName, "to": *input.LastName}
		patient.LastName = *input.LastName
	}
	if input.NationalID != nil {
		patient.NationalID = input.NationalID
		changes["national_id"] = *input.NationalID
	}
	if input.ShaNumber != nil {
		patient.ShaNumber = input.ShaNumber
		changes["sha_number"] = *input.ShaNumber
	}
	if input.Phone != nil {
		patient.Phone = input.Phone
		changes["phone"] = *input.Phone
	}
	if input.TriageLevel != nil {
		patient.TriageLevel = input.TriageLevel
		changes["triage_level"] = *input.TriageLevel
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.sink.PatientUpdated(actor, patient, changes)
	return patient, nil
}

func (s *service) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.patientRepo.Delete(ctx, patient.ID); err != nil {
		return err
	}

	s.sink.PatientDeleted(actor, patient.ID)
	return nil
}

func (s *service) List(ctx context.Context, facilityID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Patient], error) {
	patients, total, err := s.patientRepo.List(ctx, facilityID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Patient]{}, err
	}
	return domain.NewPaginatedResponse(patients, params.Page, params.PageSize, total), nil
}
