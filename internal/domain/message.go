package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID            uuid.UUID `json:"id" db:"message_id"`
	TicketID      uuid.UUID `json:"ticket_id" db:"ticket_id"`
	SenderID      uuid.UUID `json:"sender_id" db:"sender_id"`
	Content       string    `json:"content" db:"content"`
	AttachmentURL *string   `json:"attachment_url,omitempty" db:"attachment_url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	SenderName      string  `json:"sender_name,omitempty" db:"sender_name"`
	SenderAvatarURL *string `json:"sender_avatar_url,omitempty" db:"sender_avatar_url"`
}

type SendMessageInput struct {
	Content       string  `json:"content" validate:"required,min=1,max=4000"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}
