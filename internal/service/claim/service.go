package claim

import (
	"context"

	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/repository"
	"afyalink/internal/service/audit"
)

type Service interface {
	Submit(ctx context.Context, actor audit.Actor, input domain.SubmitClaimInput) (*domain.ShaClaim, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ShaClaim, error)
	UpdateStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, status domain.ClaimStatus) (*domain.ShaClaim, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.ShaClaim, error)
	List(ctx context.Context, facilityID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.ShaClaim], error)
}

type service struct {
	claimRepo   repository.ClaimRepository
	patientRepo repository.PatientRepository
	sink        *audit.Sink
}

func NewService(claimRepo repository.ClaimRepository, patientRepo repository.PatientRepository, sink *audit.Sink) Service {
	return &service{
		claimRepo:   claimRepo,
		patientRepo: patientRepo,
		sink:        sink,
	}
}

func (s *service) Submit(ctx context.Context, actor audit.Actor, input domain.SubmitClaimInput) (*domain.ShaClaim, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}
	if patient.ShaNumber == nil || *patient.ShaNumber == "" {
		return nil, domain.ErrMissingShaNumber
	}

	claim := &domain.ShaClaim{
		ID:          uuid.New(),
		PatientID:   patient.ID,
		ShaNumber:   *patient.ShaNumber,
		Amount:      input.Amount,
		Description: input.Description,
		Status:      domain.ClaimSubmitted,
		FacilityID:  input.FacilityID,
		SubmittedBy: actor.ID,
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}

	s.sink.ClaimSubmitted(ctx, actor, claim)
	return claim, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.ShaClaim, error) {
	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, domain.ErrClaimNotFound
	}
	return claim, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, status domain.ClaimStatus) (*domain.ShaClaim, error) {
	claim, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.claimRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	claim.Status = status
	return claim, nil
}

func (s *service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.ShaClaim, error) {
	return s.claimRepo.ListByPatient(ctx, patientID)
}

func (s *service) List(ctx context.Context, facilityID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.ShaClaim], error) {
	claims, total, err := s.claimRepo.List(ctx, facilityID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ShaClaim]{}, err
	}
	return domain.NewPaginatedResponse(claims, params.Page, params.PageSize, total), nil
}
