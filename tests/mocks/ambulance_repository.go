package mocks

import (
	"context"

	"afyalink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AmbulanceRepository struct {
	mock.Mock
}

func (m *AmbulanceRepository) Create(ctx context.Context, amb *domain.Ambulance) error {
	args := m.Called(ctx, amb)
	return args.Error(0)
}

func (m *AmbulanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambulance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ambulance), args.Error(1)
}

func (m *AmbulanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AmbulanceStatus, location *string) error {
	args := m.Called(ctx, id, status, location)
	return args.Error(0)
}

func (m *AmbulanceRepository) ListByFacility(ctx context.Context, facilityID string) ([]domain.Ambulance, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ambulance), args.Error(1)
}

func (m *AmbulanceRepository) ListAvailable(ctx context.Context, facilityID string) ([]domain.Ambulance, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ambulance), args.Error(1)
}
