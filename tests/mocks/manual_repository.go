package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"helpdesk-api/internal/domain"
)

type ManualRepository struct {
	mock.Mock
}

func (m *ManualRepository) Create(ctx context.Context, manual *domain.Manual) error {
	args := m.Called(ctx, manual)
	return args.Error(0)
}

func (m *ManualRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Manual, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manual), args.Error(1)
}

func (m *ManualRepository) Update(ctx context.Context, manual *domain.Manual) error {
	args := m.Called(ctx, manual)
	return args.Error(0)
}

func (m *ManualRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ManualRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ManualRepository) List(ctx context.Context) ([]domain.Manual, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Manual), args.Error(1)
}

func (m *ManualRepository) SetTags(ctx context.Context, manualID uuid.UUID, tags []string) error {
	args := m.Called(ctx, manualID, tags)
	return args.Error(0)
}

func (m *ManualRepository) SetVisibleRoles(ctx context.Context, manualID uuid.UUID, roles []domain.Role) error {
	args := m.Called(ctx, manualID, roles)
	return args.Error(0)
}

type ManualLogRepository struct {
	mock.Mock
}

func (m *ManualLogRepository) Create(ctx context.Context, log *domain.ManualLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ManualLogRepository) ListByManual(ctx context.Context, manualID uuid.UUID) ([]domain.ManualLog, error) {
	args := m.Called(ctx, manualID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ManualLog), args.Error(1)
}
