package mocks

import (
	"context"
	"time"

	"afyalink/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AuditLogRepository struct {
	mock.Mock
}

func (m *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepository) List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *AuditLogRepository) Search(ctx context.Context, query string, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	args := m.Called(ctx, query, params)
	return args.Get(0).([]domain.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *AuditLogRepository) ListForExport(ctx context.Context, filter domain.AuditLogFilter, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, filter, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *AuditLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AuditLogRepository) CountSuccessSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AuditLogRepository) CountByActionSince(ctx context.Context, since time.Time) ([]domain.ActionCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.ActionCount), args.Error(1)
}

func (m *AuditLogRepository) CountByEntityTypeSince(ctx context.Context, since time.Time) ([]domain.EntityTypeCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.EntityTypeCount), args.Error(1)
}

func (m *AuditLogRepository) TopActorsSince(ctx context.Context, since time.Time, limit int) ([]domain.ActorCount, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]domain.ActorCount), args.Error(1)
}

func (m *AuditLogRepository) HourlyHistogram(ctx context.Context, since time.Time) ([]domain.HourlyCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HourlyCount), args.Error(1)
}
