package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/report"
)

type ReportHandler struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Performance(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var params report.Params

	if advisorStr := c.Query("advisor_id"); advisorStr != "" {
		advisorID, err := uuid.Parse(advisorStr)
		if err != nil {
			return middleware.BadRequest("Invalid advisor ID")
		}
		params.AdvisorID = &advisorID
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return middleware.BadRequest("Invalid from date, expected YYYY-MM-DD")
		}
		params.From = &from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return middleware.BadRequest("Invalid to date, expected YYYY-MM-DD")
		}
		params.To = &to
	}

	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return middleware.BadRequest("Date range is inverted")
	}

	result, err := h.reportService.Performance(c.Context(), account, params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
