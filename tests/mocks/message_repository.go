package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"helpdesk-api/internal/domain"
)

type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	args := m.Called(ctx, ticketID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Message), args.Get(1).(int64), args.Error(2)
}
