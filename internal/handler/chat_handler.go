package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/chat"
	"helpdesk-api/internal/service/ticket"
)

type ChatHandler struct {
	chatService   chat.Service
	ticketService ticket.Service
}

func NewChatHandler(chatService chat.Service, ticketService ticket.Service) *ChatHandler {
	return &ChatHandler{
		chatService:   chatService,
		ticketService: ticketService,
	}
}

// ticketForViewer loads the ticket through the visibility rules so chat
// access matches ticket access exactly.
func (h *ChatHandler) ticketForViewer(c *fiber.Ctx) (*domain.User, uuid.UUID, error) {
	account := middleware.GetCurrentUser(c)
	if account == nil {
		return nil, uuid.Nil, middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, uuid.Nil, middleware.BadRequest("Invalid ticket ID")
	}

	if _, err := h.ticketService.GetByID(c.Context(), account, id); err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return nil, uuid.Nil, middleware.NotFound("Ticket not found")
		}
		return nil, uuid.Nil, err
	}

	return account, id, nil
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	_, ticketID, err := h.ticketForViewer(c)
	if err != nil {
		return err
	}

	params := getPaginationParams(c)
	result, err := h.chatService.ListMessages(c.Context(), ticketID, params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	account, ticketID, err := h.ticketForViewer(c)
	if err != nil {
		return err
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Content == "" && input.AttachmentURL == nil {
		return middleware.BadRequest("Message content is required")
	}

	message, err := h.chatService.Send(c.Context(), account, ticketID, input)
	if err != nil {
		if errors.Is(err, chat.ErrTicketResolved) {
			return middleware.Conflict("Cannot send messages on a resolved ticket")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *ChatHandler) UploadAttachment(c *fiber.Ctx) error {
	_, ticketID, err := h.ticketForViewer(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	url, err := h.chatService.UploadAttachment(c.Context(), ticketID, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrAttachmentTooLarge):
			return middleware.BadRequest("Attachment exceeds the 5 MB limit")
		case errors.Is(err, chat.ErrAttachmentExtension):
			return middleware.BadRequest("Attachment file type is not allowed")
		case errors.Is(err, chat.ErrTicketResolved):
			return middleware.Conflict("Cannot attach files to a resolved ticket")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attachment_url": url,
	})
}
