package mocks

import (
	"context"

	"afyalink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ClaimRepository struct {
	mock.Mock
}

func (m *ClaimRepository) Create(ctx context.Context, claim *domain.ShaClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ShaClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShaClaim), args.Error(1)
}

func (m *ClaimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ClaimStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *ClaimRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.ShaClaim, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShaClaim), args.Error(1)
}

func (m *ClaimRepository) List(ctx context.Context, facilityID string, params domain.PaginationParams) ([]domain.ShaClaim, int64, error) {
	args := m.Called(ctx, facilityID, params)
	return args.Get(0).([]domain.ShaClaim), args.Get(1).(int64), args.Error(2)
}
