package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/auth"
	"helpdesk-api/internal/service/user"
)

type UserHandler struct {
	userService user.Service
	authService auth.Service
}

func NewUserHandler(userService user.Service, authService auth.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

func (h *UserHandler) ListAdvisors(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", true)
	advisors, err := h.userService.ListAdvisors(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(advisors)
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	account, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return middleware.NotFound("User not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	account, err := h.userService.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return middleware.Conflict("Email is already registered")
		case errors.Is(err, user.ErrInvalidRole):
			return middleware.BadRequest("Invalid role")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	var input domain.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	account, err := h.userService.Update(c.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return middleware.NotFound("User not found")
		case errors.Is(err, user.ErrEmailTaken):
			return middleware.Conflict("Email is already registered")
		case errors.Is(err, user.ErrInvalidRole):
			return middleware.BadRequest("Invalid role")
		}
		return err
	}

	// Deactivating an account kills its refresh sessions too.
	if input.IsActive != nil && !*input.IsActive {
		if err := h.authService.LogoutAll(c.Context(), id); err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusOK).JSON(account)
}
