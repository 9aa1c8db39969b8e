package mocks

import (
	"context"

	"afyalink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type DispatchRepository struct {
	mock.Mock
}

func (m *DispatchRepository) Create(ctx context.Context, call *domain.DispatchCall) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

func (m *DispatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DispatchCall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchCall), args.Error(1)
}

func (m *DispatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DispatchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *DispatchRepository) AssignAmbulance(ctx context.Context, id, ambulanceID uuid.UUID) error {
	args := m.Called(ctx, id, ambulanceID)
	return args.Error(0)
}

func (m *DispatchRepository) List(ctx context.Context, facilityID string, status domain.DispatchStatus, params domain.PaginationParams) ([]domain.DispatchCall, int64, error) {
	args := m.Called(ctx, facilityID, status, params)
	return args.Get(0).([]domain.DispatchCall), args.Get(1).(int64), args.Error(2)
}
