package category

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrAdvisorNotFound  = errors.New("advisor not found")
	ErrNotAnAdvisor     = errors.New("categories can only be assigned to advisors")
)

type Service interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Create(ctx context.Context, input domain.CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateCategoryInput) (*domain.Category, error)
	SetAdvisorCategories(ctx context.Context, advisorID uuid.UUID, input domain.SetAdvisorCategoriesInput) error
	GetAdvisorCategories(ctx context.Context, advisorID uuid.UUID) ([]domain.Category, error)
}

type service struct {
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

func NewService(categoryRepo repository.CategoryRepository, userRepo repository.UserRepository) Service {
	return &service{
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx, includeInactive)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *service) Create(ctx context.Context, input domain.CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		ID:       uuid.New(),
		Name:     input.Name,
		IsActive: true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// SetAdvisorCategories replaces the advisor's covered categories as a whole.
// Every referenced category must exist; inactive categories are allowed so an
// advisor keeps covering tickets opened before the category was retired.
func (s *service) SetAdvisorCategories(ctx context.Context, advisorID uuid.UUID, input domain.SetAdvisorCategoriesInput) error {
	advisor, err := s.userRepo.GetByID(ctx, advisorID)
	if err != nil {
		return err
	}
	if advisor == nil {
		return ErrAdvisorNotFound
	}
	if advisor.Role != domain.RoleAdvisor {
		return ErrNotAnAdvisor
	}

	for _, categoryID := range input.CategoryIDs {
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}

	return s.userRepo.SetAdvisorCategories(ctx, advisorID, input.CategoryIDs)
}

func (s *service) GetAdvisorCategories(ctx context.Context, advisorID uuid.UUID) ([]domain.Category, error) {
	categoryIDs, err := s.userRepo.GetAdvisorCategoryIDs(ctx, advisorID)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if category != nil {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}
