package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id" db:"category_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateCategoryInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SetAdvisorCategoriesInput replaces the full set of categories an advisor
// covers.
type SetAdvisorCategoriesInput struct {
	CategoryIDs []uuid.UUID `json:"category_ids"`
}
