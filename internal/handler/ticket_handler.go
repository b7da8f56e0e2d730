package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/ticket"
)

type TicketHandler struct {
	ticketService ticket.Service
}

func NewTicketHandler(ticketService ticket.Service) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// List returns the tickets visible to the caller. What "visible" means
// depends on the caller's role; the list always comes back urgent first,
// newest first.
func (h *TicketHandler) List(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	tickets, err := h.ticketService.Visible(c.Context(), account.ID, account.Role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(tickets)
}

func (h *TicketHandler) GetByID(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid ticket ID")
	}

	t, err := h.ticketService.GetByID(c.Context(), account, id)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return middleware.NotFound("Ticket not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(t)
}

func (h *TicketHandler) Create(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.CreateTicketInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.Description == "" {
		return middleware.BadRequest("Title and description are required")
	}

	created, err := h.ticketService.Create(c.Context(), account, input)
	if err != nil {
		if errors.Is(err, ticket.ErrCategoryNotFound) {
			return middleware.BadRequest("Category not found or inactive")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *TicketHandler) Update(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid ticket ID")
	}

	var input domain.UpdateTicketInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.Description == "" {
		return middleware.BadRequest("Title and description are required")
	}

	updated, err := h.ticketService.UpdateDescription(c.Context(), account.ID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, ticket.ErrTicketNotFound):
			return middleware.NotFound("Ticket not found")
		case errors.Is(err, ticket.ErrNotCreator):
			return middleware.Forbidden("Only the ticket creator may edit it")
		case errors.Is(err, ticket.ErrAlreadyEdited):
			return middleware.Conflict("This ticket has already been edited once")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *TicketHandler) Assign(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid ticket ID")
	}

	// Advisors claim for themselves; administrators may name any advisor.
	advisorID := account.ID
	var input struct {
		AdvisorID *uuid.UUID `json:"advisor_id"`
	}
	if err := c.BodyParser(&input); err == nil && input.AdvisorID != nil {
		advisorID = *input.AdvisorID
	}

	if err := h.ticketService.Assign(c.Context(), account, id, advisorID); err != nil {
		switch {
		case errors.Is(err, ticket.ErrTicketNotFound):
			return middleware.NotFound("Ticket not found")
		case errors.Is(err, ticket.ErrAlreadyResolved):
			return middleware.Conflict("Ticket is already resolved")
		case errors.Is(err, ticket.ErrAlreadyAssigned):
			return middleware.Conflict("Ticket is already assigned to another advisor")
		case errors.Is(err, ticket.ErrNotAssignedAdvisor), errors.Is(err, ticket.ErrCategoryNotCovered):
			return middleware.Forbidden("You cannot claim this ticket")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Ticket assigned",
	})
}

func (h *TicketHandler) Resolve(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid ticket ID")
	}

	if err := h.ticketService.Resolve(c.Context(), account, id); err != nil {
		switch {
		case errors.Is(err, ticket.ErrTicketNotFound):
			return middleware.NotFound("Ticket not found")
		case errors.Is(err, ticket.ErrNotAssignedAdvisor):
			return middleware.Forbidden("Only the assigned advisor may resolve this ticket")
		case errors.Is(err, ticket.ErrAlreadyResolved):
			return middleware.Conflict("Ticket is already resolved")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Ticket resolved",
	})
}

func (h *TicketHandler) Rate(c *fiber.Ctx) error {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid ticket ID")
	}

	var input domain.RateTicketInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.ticketService.Rate(c.Context(), account, id, input.Stars); err != nil {
		switch {
		case errors.Is(err, ticket.ErrTicketNotFound):
			return middleware.NotFound("Ticket not found")
		case errors.Is(err, ticket.ErrRatingOutOfRange):
			return middleware.BadRequest("Satisfaction rating must be between 1 and 5")
		case errors.Is(err, ticket.ErrNotCreator):
			return middleware.Forbidden("Only the ticket creator may rate it")
		case errors.Is(err, ticket.ErrNotResolved):
			return middleware.Conflict("Ticket must be resolved before rating")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Rating saved",
	})
}

func (h *TicketHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid ticket ID")
	}

	if err := h.ticketService.SoftDelete(c.Context(), id); err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return middleware.NotFound("Ticket not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Ticket deleted",
	})
}
