package unit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"helpdesk-api/internal/config"
	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/service/chat"
	"helpdesk-api/internal/service/notification"
	"helpdesk-api/tests/mocks"
)

func newChatService(messageRepo *mocks.MessageRepository, ticketRepo *mocks.TicketRepository) (chat.Service, *notification.Broker) {
	broker := notification.NewBroker()
	cfg := &config.Config{MinIOBucket: "helpdesk-attachments"}
	svc := chat.NewService(messageRepo, ticketRepo, nil, nil, cfg, broker)
	return svc, broker
}

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()
	sender := &domain.User{ID: uuid.New(), FullName: "Sender", Role: domain.RoleEndUser}
	input := domain.SendMessageInput{Content: "hello"}

	t.Run("Success publishes NewChatMessage", func(t *testing.T) {
		messageRepo := new(mocks.MessageRepository)
		ticketRepo := new(mocks.TicketRepository)
		svc, broker := newChatService(messageRepo, ticketRepo)

		var received []domain.Event
		defer broker.Subscribe(func(e domain.Event) { received = append(received, e) })()

		ticketRepo.On("GetByID", ctx, ticketID).
			Return(&domain.Ticket{ID: ticketID, CreatorID: sender.ID, Status: domain.StatusAssigned}, nil).Once()
		messageRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.TicketID == ticketID && m.SenderID == sender.ID && m.Content == "hello"
		})).Return(nil).Once()

		message, err := svc.Send(ctx, sender, ticketID, input)

		require.NoError(t, err)
		assert.Equal(t, sender.FullName, message.SenderName)
		require.Len(t, received, 1)
		assert.Equal(t, domain.EventNewChatMessage, received[0].Kind)
		assert.Equal(t, sender.FullName, received[0].ActorName)
	})

	t.Run("Resolved ticket rejects messages", func(t *testing.T) {
		messageRepo := new(mocks.MessageRepository)
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newChatService(messageRepo, ticketRepo)

		ticketRepo.On("GetByID", ctx, ticketID).
			Return(&domain.Ticket{ID: ticketID, Status: domain.StatusResolved}, nil).Once()

		message, err := svc.Send(ctx, sender, ticketID, input)

		assert.ErrorIs(t, err, chat.ErrTicketResolved)
		assert.Nil(t, message)
		messageRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Unknown ticket", func(t *testing.T) {
		messageRepo := new(mocks.MessageRepository)
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newChatService(messageRepo, ticketRepo)

		ticketRepo.On("GetByID", ctx, ticketID).Return(nil, nil).Once()

		_, err := svc.Send(ctx, sender, ticketID, input)

		assert.ErrorIs(t, err, chat.ErrTicketNotFound)
	})
}

func TestChatService_UploadAttachment_Validation(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	t.Run("Oversized file rejected before any lookup", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newChatService(new(mocks.MessageRepository), ticketRepo)

		_, err := svc.UploadAttachment(ctx, ticketID, "big.pdf", 6*1024*1024, "application/pdf", strings.NewReader(""))

		assert.ErrorIs(t, err, chat.ErrAttachmentTooLarge)
		ticketRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Disallowed extension rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newChatService(new(mocks.MessageRepository), ticketRepo)

		for _, name := range []string{"malware.exe", "script.sh", "archive.zip", "noextension"} {
			_, err := svc.UploadAttachment(ctx, ticketID, name, 100, "application/octet-stream", strings.NewReader(""))
			assert.ErrorIs(t, err, chat.ErrAttachmentExtension, name)
		}
	})

	t.Run("Extension check is case insensitive", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newChatService(new(mocks.MessageRepository), ticketRepo)

		// Passes validation, then fails on the resolved-ticket check, which
		// proves the extension was accepted.
		ticketRepo.On("GetByID", ctx, ticketID).
			Return(&domain.Ticket{ID: ticketID, Status: domain.StatusResolved}, nil).Once()

		_, err := svc.UploadAttachment(ctx, ticketID, "PHOTO.JPG", 100, "image/jpeg", strings.NewReader(""))

		assert.ErrorIs(t, err, chat.ErrTicketResolved)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	messageRepo := new(mocks.MessageRepository)
	ticketRepo := new(mocks.TicketRepository)
	svc, _ := newChatService(messageRepo, ticketRepo)

	params := domain.PaginationParams{Page: 1, PageSize: 20}
	messages := []domain.Message{
		{ID: uuid.New(), TicketID: ticketID, Content: "first"},
		{ID: uuid.New(), TicketID: ticketID, Content: "second"},
	}
	messageRepo.On("ListByTicket", ctx, ticketID, params).Return(messages, int64(2), nil).Once()

	result, err := svc.ListMessages(ctx, ticketID, params)

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalItems)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "first", result.Data[0].Content)
}
