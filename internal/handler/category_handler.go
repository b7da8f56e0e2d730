package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/middleware"
	"helpdesk-api/internal/service/category"
)

type CategoryHandler struct {
	categoryService category.Service
}

func NewCategoryHandler(categoryService category.Service) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)

	// Only administrators may see retired categories.
	account := middleware.GetCurrentUser(c)
	if includeInactive && (account == nil || account.Role != domain.RoleAdministrator) {
		includeInactive = false
	}

	categories, err := h.categoryService.List(c.Context(), includeInactive)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(categories)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Name == "" {
		return middleware.BadRequest("Category name is required")
	}

	created, err := h.categoryService.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid category ID")
	}

	var input domain.UpdateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.categoryService.Update(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return middleware.NotFound("Category not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *CategoryHandler) GetAdvisorCategories(c *fiber.Ctx) error {
	advisorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid advisor ID")
	}

	categories, err := h.categoryService.GetAdvisorCategories(c.Context(), advisorID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(categories)
}

func (h *CategoryHandler) SetAdvisorCategories(c *fiber.Ctx) error {
	advisorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid advisor ID")
	}

	var input domain.SetAdvisorCategoriesInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.categoryService.SetAdvisorCategories(c.Context(), advisorID, input); err != nil {
		switch {
		case errors.Is(err, category.ErrAdvisorNotFound):
			return middleware.NotFound("Advisor not found")
		case errors.Is(err, category.ErrNotAnAdvisor):
			return middleware.BadRequest("Categories can only be assigned to advisors")
		case errors.Is(err, category.ErrCategoryNotFound):
			return middleware.BadRequest("One or more categories do not exist")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Advisor categories updated",
	})
}
