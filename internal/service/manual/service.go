package manual

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
)

var (
	ErrManualNotFound = errors.New("manual not found")
	ErrNotAuthor      = errors.New("only the author or an administrator may modify this manual")
)

type Service interface {
	List(ctx context.Context, viewer *domain.User) ([]domain.Manual, error)
	GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.Manual, error)
	Create(ctx context.Context, author *domain.User, input domain.SaveManualInput) (*domain.Manual, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.SaveManualInput) (*domain.Manual, error)
	Deactivate(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Activate(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID) ([]domain.ManualLog, error)
}

type service struct {
	manualRepo repository.ManualRepository
	logRepo    repository.ManualLogRepository
}

func NewService(manualRepo repository.ManualRepository, logRepo repository.ManualLogRepository) Service {
	return &service{
		manualRepo: manualRepo,
		logRepo:    logRepo,
	}
}

// visibleTo applies the role visibility rules. Administrators see everything
// including deleted and inactive manuals; everyone else sees only active,
// non-deleted manuals that are either public (no visible-role rows) or list
// the viewer's role.
func visibleTo(manual *domain.Manual, viewer *domain.User) bool {
	if viewer.Role == domain.RoleAdministrator {
		return true
	}
	if manual.IsDeleted || !manual.IsActive {
		return false
	}
	if len(manual.VisibleRoles) == 0 {
		return true
	}
	for _, role := range manual.VisibleRoles {
		if role == viewer.Role {
			return true
		}
	}
	return false
}

func (s *service) List(ctx context.Context, viewer *domain.User) ([]domain.Manual, error) {
	manuals, err := s.manualRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Manual, 0, len(manuals))
	for _, manual := range manuals {
		if visibleTo(&manual, viewer) {
			visible = append(visible, manual)
		}
	}
	return visible, nil
}

func (s *service) GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.Manual, error) {
	manual, err := s.manualRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if manual == nil || !visibleTo(manual, viewer) {
		return nil, ErrManualNotFound
	}
	return manual, nil
}

func (s *service) Create(ctx context.Context, author *domain.User, input domain.SaveManualInput) (*domain.Manual, error) {
	manual := &domain.Manual{
		ID:          uuid.New(),
		Title:       input.Title,
		ContentHTML: input.ContentHTML,
		AuthorID:    author.ID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		manual.IsActive = *input.IsActive
	}

	if err := s.manualRepo.Create(ctx, manual); err != nil {
		return nil, fmt.Errorf("failed to create manual: %w", err)
	}

	manual.Tags = domain.NormalizeTags(input.Tags)
	if err := s.manualRepo.SetTags(ctx, manual.ID, manual.Tags); err != nil {
		return nil, err
	}
	manual.VisibleRoles = input.VisibleRoles
	if err := s.manualRepo.SetVisibleRoles(ctx, manual.ID, manual.VisibleRoles); err != nil {
		return nil, err
	}

	manual.AuthorName = author.FullName
	s.writeLog(ctx, manual.ID, author.ID, domain.ManualActionCreated, nil)
	return manual, nil
}

func (s *service) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.SaveManualInput) (*domain.Manual, error) {
	manual, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	manual.Title = input.Title
	manual.ContentHTML = input.ContentHTML
	if input.IsActive != nil {
		manual.IsActive = *input.IsActive
	}

	if err := s.manualRepo.Update(ctx, manual); err != nil {
		return nil, err
	}

	manual.Tags = domain.NormalizeTags(input.Tags)
	if err := s.manualRepo.SetTags(ctx, manual.ID, manual.Tags); err != nil {
		return nil, err
	}
	manual.VisibleRoles = input.VisibleRoles
	if err := s.manualRepo.SetVisibleRoles(ctx, manual.ID, manual.VisibleRoles); err != nil {
		return nil, err
	}

	s.writeLog(ctx, manual.ID, actor.ID, domain.ManualActionUpdated, nil)
	return manual, nil
}

func (s *service) Deactivate(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	manual, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return err
	}

	manual.IsActive = false
	if err := s.manualRepo.Update(ctx, manual); err != nil {
		return err
	}

	s.writeLog(ctx, id, actor.ID, domain.ManualActionDeactivated, nil)
	return nil
}

func (s *service) Activate(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	manual, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return err
	}

	manual.IsActive = true
	if err := s.manualRepo.Update(ctx, manual); err != nil {
		return err
	}

	s.writeLog(ctx, id, actor.ID, domain.ManualActionActivated, nil)
	return nil
}

// Delete removes a manual. Administrators delete for real, history included;
// advisors only soft-delete, which keeps the row and its logs around.
func (s *service) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	manual, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return err
	}

	if actor.Role == domain.RoleAdministrator {
		return s.manualRepo.HardDelete(ctx, manual.ID)
	}

	if err := s.manualRepo.SoftDelete(ctx, manual.ID); err != nil {
		return err
	}
	s.writeLog(ctx, id, actor.ID, domain.ManualActionSoftDeleted, nil)
	return nil
}

func (s *service) History(ctx context.Context, id uuid.UUID) ([]domain.ManualLog, error) {
	manual, err := s.manualRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if manual == nil {
		return nil, ErrManualNotFound
	}
	return s.logRepo.ListByManual(ctx, id)
}

func (s *service) loadForEdit(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Manual, error) {
	manual, err := s.manualRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if manual == nil || (manual.IsDeleted && actor.Role != domain.RoleAdministrator) {
		return nil, ErrManualNotFound
	}
	if actor.Role != domain.RoleAdministrator && manual.AuthorID != actor.ID {
		return nil, ErrNotAuthor
	}
	return manual, nil
}

func (s *service) writeLog(ctx context.Context, manualID, userID uuid.UUID, action string, detail *string) {
	entry := &domain.ManualLog{
		ID:       uuid.New(),
		ManualID: manualID,
		UserID:   userID,
		Action:   action,
		Detail:   detail,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to write manual log for %s: %v", manualID, err)
	}
}
