package domain

import "github.com/google/uuid"

// EventKind identifies which ticket state change an Event announces.
type EventKind string

const (
	EventNewTicket      EventKind = "NewTicket"
	EventTicketAssigned EventKind = "TicketAssigned"
	EventTicketResolved EventKind = "TicketResolved"
	EventNewRating      EventKind = "NewRating"
	EventNewChatMessage EventKind = "NewChatMessage"
)

// Event is the ephemeral payload fanned out to connected sessions after a
// ticket or chat write commits. It is never persisted: built, published,
// discarded. Owner and advisor ids travel with the event so each subscriber
// can decide relevance on its own; the broker never filters.
type Event struct {
	TicketID    uuid.UUID  `json:"ticket_id"`
	TicketTitle string     `json:"ticket_title"`
	Kind        EventKind  `json:"kind"`
	ActorName   string     `json:"actor_name"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	AdvisorID   *uuid.UUID `json:"advisor_id,omitempty"`
}
