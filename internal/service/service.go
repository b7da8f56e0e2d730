package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"helpdesk-api/internal/config"
	"helpdesk-api/internal/repository"
	"helpdesk-api/internal/service/auth"
	"helpdesk-api/internal/service/category"
	"helpdesk-api/internal/service/chat"
	"helpdesk-api/internal/service/dashboard"
	"helpdesk-api/internal/service/email"
	"helpdesk-api/internal/service/manual"
	"helpdesk-api/internal/service/notification"
	"helpdesk-api/internal/service/report"
	"helpdesk-api/internal/service/ticket"
	"helpdesk-api/internal/service/user"
)

type Services struct {
	Auth      auth.Service
	User      user.Service
	Category  category.Service
	Ticket    ticket.Service
	Chat      chat.Service
	Manual    manual.Service
	Dashboard dashboard.Service
	Report    report.Service
	Email     email.Service
}

func NewServices(
	repos *repository.Repositories,
	broker *notification.Broker,
	redisClient *redis.Client,
	minioClient *minio.Client,
	cfg *config.Config,
) *Services {
	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, cfg)
	userService := user.NewService(repos.User, emailService)
	categoryService := category.NewService(repos.Category, repos.User)
	ticketService := ticket.NewService(repos.Ticket, repos.User, repos.Category, broker, emailService)
	chatService := chat.NewService(repos.Message, repos.Ticket, minioClient, redisClient, cfg, broker)
	manualService := manual.NewService(repos.Manual, repos.ManualLog)
	dashboardService := dashboard.NewService(repos.Ticket, redisClient)
	reportService := report.NewService(repos.Ticket)

	return &Services{
		Auth:      authService,
		User:      userService,
		Category:  categoryService,
		Ticket:    ticketService,
		Chat:      chatService,
		Manual:    manualService,
		Dashboard: dashboardService,
		Report:    reportService,
		Email:     emailService,
	}
}
