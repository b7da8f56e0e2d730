package domain

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID           uuid.UUID    `json:"id" db:"ticket_id"`
	CreatorID    uuid.UUID    `json:"creator_id" db:"creator_id"`
	AdvisorID    *uuid.UUID   `json:"advisor_id" db:"advisor_id"`
	CategoryID   uuid.UUID    `json:"category_id" db:"category_id"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Status       TicketStatus `json:"status" db:"status"`
	IsUrgent     bool         `json:"is_urgent" db:"is_urgent"`
	WasEdited    bool         `json:"was_edited" db:"was_edited"`
	Satisfaction *int         `json:"satisfaction,omitempty" db:"satisfaction"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	ClosedAt     *time.Time   `json:"closed_at,omitempty" db:"closed_at"`
	IsDeleted    bool         `json:"-" db:"is_deleted"`

	CreatorName  string  `json:"creator_name,omitempty" db:"creator_name"`
	AdvisorName  *string `json:"advisor_name,omitempty" db:"advisor_name"`
	CategoryName string  `json:"category_name,omitempty" db:"category_name"`
}

// TicketStatus tracks the ticket lifecycle: Open → Assigned → Resolved.
// Resolved is terminal.
type TicketStatus string

const (
	StatusOpen     TicketStatus = "Open"
	StatusAssigned TicketStatus = "Assigned"
	StatusResolved TicketStatus = "Resolved"
)

type CreateTicketInput struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"required"`
	IsUrgent    bool      `json:"is_urgent"`
}

type UpdateTicketInput struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required"`
}

type RateTicketInput struct {
	Stars int `json:"stars" validate:"required,min=1,max=5"`
}
