package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendTicketCreatedEmail(ctx context.Context, toEmail, advisorName, creatorName, ticketTitle string) error {
	args := m.Called(ctx, toEmail, advisorName, creatorName, ticketTitle)
	return args.Error(0)
}

func (m *EmailService) SendTicketResolvedEmail(ctx context.Context, toEmail, creatorName, advisorName, ticketTitle string) error {
	args := m.Called(ctx, toEmail, creatorName, advisorName, ticketTitle)
	return args.Error(0)
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName, temporaryPassword string) error {
	args := m.Called(ctx, toEmail, fullName, temporaryPassword)
	return args.Error(0)
}
