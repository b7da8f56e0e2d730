package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
)

type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *TicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *TicketRepository) UpdateDescription(ctx context.Context, id uuid.UUID, title, description string) error {
	args := m.Called(ctx, id, title, description)
	return args.Error(0)
}

func (m *TicketRepository) Assign(ctx context.Context, id, advisorID uuid.UUID) error {
	args := m.Called(ctx, id, advisorID)
	return args.Error(0)
}

func (m *TicketRepository) Resolve(ctx context.Context, id uuid.UUID, closedAt time.Time) error {
	args := m.Called(ctx, id, closedAt)
	return args.Error(0)
}

func (m *TicketRepository) Rate(ctx context.Context, id uuid.UUID, stars int) error {
	args := m.Called(ctx, id, stars)
	return args.Error(0)
}

func (m *TicketRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TicketRepository) Count(ctx context.Context, f repository.StatsFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TicketRepository) CountResolved(ctx context.Context, f repository.StatsFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TicketRepository) AverageSatisfaction(ctx context.Context, f repository.StatsFilter) (float64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(float64), args.Error(1)
}

func (m *TicketRepository) AverageResolutionHours(ctx context.Context, f repository.ReportFilter) (float64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(float64), args.Error(1)
}

func (m *TicketRepository) CountResolvedByCategory(ctx context.Context, f repository.ReportFilter) ([]repository.CategoryCount, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryCount), args.Error(1)
}
