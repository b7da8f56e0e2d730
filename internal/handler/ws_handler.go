package handler

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/auth"
	"helpdesk-api/internal/service/notification"
	"helpdesk-api/internal/ws"
)

type WSHandler struct {
	authService auth.Service
	broker      *notification.Broker
	hub         *ws.Hub
}

func NewWSHandler(authService auth.Service, broker *notification.Broker, hub *ws.Hub) *WSHandler {
	return &WSHandler{
		authService: authService,
		broker:      broker,
		hub:         hub,
	}
}

// wsEvent is the wire shape pushed to browsers.
type wsEvent struct {
	Kind        domain.EventKind `json:"kind"`
	TicketID    string           `json:"ticket_id"`
	TicketTitle string           `json:"ticket_title"`
	ActorName   string           `json:"actor_name"`
	Timestamp   time.Time        `json:"timestamp"`
}

// Upgrade authenticates the websocket handshake. Browsers cannot set an
// Authorization header on a websocket request, so the access token travels as
// a query parameter instead.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return middleware.Unauthorized("Missing token")
	}

	claims, err := h.authService.ValidateAccessToken(token)
	if err != nil {
		return middleware.Unauthorized("Invalid or expired token")
	}

	user, err := h.authService.GetUserByID(c.Context(), claims.UserID)
	if err != nil || user == nil || !user.IsActive {
		return middleware.Unauthorized("User not found")
	}

	c.Locals(middleware.UserContextKey, user)
	return c.Next()
}

// Serve runs one websocket session. The client subscribes to the broker for
// the duration of the connection and receives the events addressed to it:
// administrators see everything, everyone else sees events for tickets they
// own or are assigned to.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals(middleware.UserContextKey).(*domain.User)
		if !ok || user == nil {
			_ = conn.Close()
			return
		}

		client := ws.NewClient(user.ID.String(), conn)
		h.hub.Register(client)

		unsubscribe := h.broker.Subscribe(func(event domain.Event) {
			if !eventAddressedTo(event, user) {
				return
			}
			payload, err := json.Marshal(wsEvent{
				Kind:        event.Kind,
				TicketID:    event.TicketID.String(),
				TicketTitle: event.TicketTitle,
				ActorName:   event.ActorName,
				Timestamp:   time.Now(),
			})
			if err != nil {
				return
			}
			if !client.Enqueue(payload) {
				h.hub.Unregister(client)
			}
		})
		defer func() {
			unsubscribe()
			h.hub.Unregister(client)
		}()

		go client.WritePump()

		// Block on reads until the peer goes away. Inbound frames are
		// ignored; the chat API is HTTP.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func eventAddressedTo(event domain.Event, user *domain.User) bool {
	if user.Role == domain.RoleAdministrator {
		return true
	}
	if event.OwnerID == user.ID {
		return true
	}
	if event.AdvisorID != nil && *event.AdvisorID == user.ID {
		return true
	}
	return false
}
