package handler

import (
	"github.com/gofiber/fiber/v2"

	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	stats, err := h.dashboardService.GetStats(c.Context(), account)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
