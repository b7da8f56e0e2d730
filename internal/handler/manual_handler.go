package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/manual"
)

type ManualHandler struct {
	manualService manual.Service
}

func NewManualHandler(manualService manual.Service) *ManualHandler {
	return &ManualHandler{manualService: manualService}
}

func (h *ManualHandler) List(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	manuals, err := h.manualService.List(c.Context(), account)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(manuals)
}

func (h *ManualHandler) GetByID(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid manual ID")
	}

	m, err := h.manualService.GetByID(c.Context(), account, id)
	if err != nil {
		if errors.Is(err, manual.ErrManualNotFound) {
			return middleware.NotFound("Manual not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

func (h *ManualHandler) Create(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.SaveManualInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.ContentHTML == "" {
		return middleware.BadRequest("Title and content are required")
	}

	created, err := h.manualService.Create(c.Context(), account, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ManualHandler) Update(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid manual ID")
	}

	var input domain.SaveManualInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.ContentHTML == "" {
		return middleware.BadRequest("Title and content are required")
	}

	updated, err := h.manualService.Update(c.Context(), account, id, input)
	if err != nil {
		return manualError(err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ManualHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *ManualHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *ManualHandler) setActive(c *fiber.Ctx, active bool) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid manual ID")
	}

	if active {
		err = h.manualService.Activate(c.Context(), account, id)
	} else {
		err = h.manualService.Deactivate(c.Context(), account, id)
	}
	if err != nil {
		return manualError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Manual updated",
	})
}

func (h *ManualHandler) Delete(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid manual ID")
	}

	if err := h.manualService.Delete(c.Context(), account, id); err != nil {
		return manualError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Manual deleted",
	})
}

func (h *ManualHandler) History(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid manual ID")
	}

	logs, err := h.manualService.History(c.Context(), id)
	if err != nil {
		return manualError(err)
	}
	return c.Status(fiber.StatusOK).JSON(logs)
}

func manualError(err error) error {
	switch {
	case errors.Is(err, manual.ErrManualNotFound):
		return middleware.NotFound("Manual not found")
	case errors.Is(err, manual.ErrNotAuthor):
		return middleware.Forbidden("Only the author or an administrator may modify this manual")
	}
	return err
}
