package handler

import (
	"helpdesk-api/internal/service"
	"helpdesk-api/internal/service/notification"
	"helpdesk-api/internal/ws"
)

type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Category  *CategoryHandler
	Ticket    *TicketHandler
	Chat      *ChatHandler
	Manual    *ManualHandler
	Dashboard *DashboardHandler
	Report    *ReportHandler
	WS        *WSHandler
}

func NewHandlers(services *service.Services, broker *notification.Broker, hub *ws.Hub) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(services.Auth, services.User),
		User:      NewUserHandler(services.User, services.Auth),
		Category:  NewCategoryHandler(services.Category),
		Ticket:    NewTicketHandler(services.Ticket),
		Chat:      NewChatHandler(services.Chat, services.Ticket),
		Manual:    NewManualHandler(services.Manual),
		Dashboard: NewDashboardHandler(services.Dashboard),
		Report:    NewReportHandler(services.Report),
		WS:        NewWSHandler(services.Auth, broker, hub),
	}
}
