package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"helpdesk-api/internal/config"
	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/handler"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/repository"
	"helpdesk-api/internal/service"
	"helpdesk-api/internal/service/auth"
	"helpdesk-api/internal/service/notification"
	"helpdesk-api/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (caching disabled)", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (attachments will not work)", err)
	}

	broker := notification.NewBroker()
	hub := ws.NewHub()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, broker, redisClient, minioClient, cfg)
	handlers := handler.NewHandlers(services, broker, hub)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/ws", h.WS.Upgrade, h.WS.Serve())

	authGroup := v1.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/me", h.Auth.Me)
	protected.Post("/me/change-password", h.Auth.ChangePassword)

	users := protected.Group("/users", middleware.RequireRole(domain.RoleAdministrator))
	users.Get("/", h.User.List)
	users.Post("/", h.User.Create)
	users.Get("/:id", h.User.GetByID)
	users.Put("/:id", h.User.Update)

	advisors := protected.Group("/advisors")
	advisors.Get("/", h.User.ListAdvisors)
	advisors.Get("/:id/categories", h.Category.GetAdvisorCategories)
	advisors.Put("/:id/categories", middleware.RequireRole(domain.RoleAdministrator), h.Category.SetAdvisorCategories)

	categories := protected.Group("/categories")
	categories.Get("/", h.Category.List)
	categories.Post("/", middleware.RequireRole(domain.RoleAdministrator), h.Category.Create)
	categories.Put("/:id", middleware.RequireRole(domain.RoleAdministrator), h.Category.Update)

	tickets := protected.Group("/tickets")
	tickets.Get("/", h.Ticket.List)
	tickets.Post("/", h.Ticket.Create)
	tickets.Get("/:id", h.Ticket.GetByID)
	tickets.Put("/:id", h.Ticket.Update)
	tickets.Post("/:id/assign", middleware.RequireRole(domain.RoleAdvisor), h.Ticket.Assign)
	tickets.Post("/:id/resolve", middleware.RequireRole(domain.RoleAdvisor), h.Ticket.Resolve)
	tickets.Post("/:id/rate", h.Ticket.Rate)
	tickets.Delete("/:id", middleware.RequireRole(domain.RoleAdministrator), h.Ticket.Delete)

	tickets.Get("/:id/messages", h.Chat.ListMessages)
	tickets.Post("/:id/messages", h.Chat.Send)
	tickets.Post("/:id/attachments", h.Chat.UploadAttachment)

	manuals := protected.Group("/manuals")
	manuals.Get("/", h.Manual.List)
	manuals.Post("/", middleware.RequireRole(domain.RoleAdvisor), h.Manual.Create)
	manuals.Get("/:id", h.Manual.GetByID)
	manuals.Put("/:id", middleware.RequireRole(domain.RoleAdvisor), h.Manual.Update)
	manuals.Post("/:id/activate", middleware.RequireRole(domain.RoleAdvisor), h.Manual.Activate)
	manuals.Post("/:id/deactivate", middleware.RequireRole(domain.RoleAdvisor), h.Manual.Deactivate)
	manuals.Delete("/:id", middleware.RequireRole(domain.RoleAdvisor), h.Manual.Delete)
	manuals.Get("/:id/history", middleware.RequireRole(domain.RoleAdvisor), h.Manual.History)

	protected.Get("/dashboard", h.Dashboard.GetStats)
	protected.Get("/reports/performance", middleware.RequireAnyRole(domain.RoleAdministrator, domain.RoleAdvisor), h.Report.Performance)
}
