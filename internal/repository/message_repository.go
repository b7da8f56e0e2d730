package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"helpdesk-api/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByTicket(ctx context.Context, ticketID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (message_id, ticket_id, sender_id, content, attachment_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		message.ID, message.TicketID, message.SenderID, message.Content, message.AttachmentURL,
	).Scan(&message.CreatedAt)
}

// ListByTicket returns the ticket's chat history oldest first, with sender
// display fields joined in.
func (r *messageRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM messages WHERE ticket_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, ticketID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			m.message_id, m.ticket_id, m.sender_id, m.content, m.attachment_url, m.created_at,
			u.full_name AS sender_name,
			u.avatar_url AS sender_avatar_url
		FROM messages m
		INNER JOIN users u ON m.sender_id = u.user_id
		WHERE m.ticket_id = $1
		ORDER BY m.created_at ASC
		LIMIT $2 OFFSET $3`

	var messages []domain.Message
	err := r.db.SelectContext(ctx, &messages, query, ticketID, params.PageSize, params.Offset())
	return messages, total, err
}
