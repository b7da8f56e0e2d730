package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/auth"
	"helpdesk-api/internal/service/user"
)

type AuthHandler struct {
	authService auth.Service
	userService user.Service
}

func NewAuthHandler(authService auth.Service, userService user.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	var userAgent, ipAddress *string
	if ua := c.Get("User-Agent"); ua != "" {
		userAgent = &ua
	}
	if ip := c.IP(); ip != "" {
		ipAddress = &ip
	}

	account, tokens, err := h.authService.Login(c.Context(), input, userAgent, ipAddress)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailNotRegistered):
			return middleware.Unauthorized("No account exists for this email")
		case errors.Is(err, auth.ErrAccountDisabled):
			return middleware.Forbidden("This account has been disabled. Contact an administrator.")
		case errors.Is(err, auth.ErrWrongPassword):
			return middleware.Unauthorized("Incorrect password")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":          account,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	tokens, err := h.authService.RefreshToken(c.Context(), input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
			return middleware.Unauthorized("Invalid refresh token")
		case errors.Is(err, auth.ErrAccountDisabled):
			return middleware.Forbidden("This account has been disabled. Contact an administrator.")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.authService.Logout(c.Context(), input.RefreshToken); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}
	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return middleware.BadRequest("Password must be at least 8 characters")
	}

	if err := h.userService.ChangePassword(c.Context(), account.ID, input.NewPassword); err != nil {
		return err
	}

	// Force re-login everywhere after a password change.
	if err := h.authService.LogoutAll(c.Context(), account.ID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password changed",
	})
}
