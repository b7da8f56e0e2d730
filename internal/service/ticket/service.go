package ticket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
	"helpdesk-api/internal/service/email"
	"helpdesk-api/internal/service/notification"
)

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrCategoryNotFound   = errors.New("category not found or inactive")
	ErrAlreadyEdited      = errors.New("this ticket has already been edited once")
	ErrNotCreator         = errors.New("only the ticket creator may perform this action")
	ErrAlreadyAssigned    = errors.New("ticket is already assigned to an advisor")
	ErrCategoryNotCovered = errors.New("advisor does not cover this ticket's category")
	ErrNotAssignedAdvisor = errors.New("only the assigned advisor may resolve this ticket")
	ErrAlreadyResolved    = errors.New("ticket is already resolved")
	ErrNotResolved        = errors.New("ticket is not resolved yet")
	ErrRatingOutOfRange   = errors.New("satisfaction rating must be between 1 and 5")
)

type Service interface {
	Visible(ctx context.Context, userID uuid.UUID, role domain.Role) ([]domain.Ticket, error)
	GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.Ticket, error)
	Create(ctx context.Context, creator *domain.User, input domain.CreateTicketInput) (*domain.Ticket, error)
	UpdateDescription(ctx context.Context, userID uuid.UUID, id uuid.UUID, input domain.UpdateTicketInput) (*domain.Ticket, error)
	Assign(ctx context.Context, actor *domain.User, ticketID, advisorID uuid.UUID) error
	Resolve(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Rate(ctx context.Context, actor *domain.User, id uuid.UUID, stars int) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	ticketRepo   repository.TicketRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	broker       *notification.Broker
	emailSvc     email.Service
}

func NewService(
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	broker *notification.Broker,
	emailSvc email.Service,
) Service {
	return &service{
		ticketRepo:   ticketRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		broker:       broker,
		emailSvc:     emailSvc,
	}
}

// Visible loads the non-deleted tickets and applies the role routing filter.
// Advisors additionally get their covered category set resolved from the
// assignment table.
func (s *service) Visible(ctx context.Context, userID uuid.UUID, role domain.Role) ([]domain.Ticket, error) {
	tickets, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var categoryIDs []uuid.UUID
	if role == domain.RoleAdvisor {
		categoryIDs, err = s.userRepo.GetAdvisorCategoryIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	return FilterVisible(tickets, userID, role, categoryIDs), nil
}

// GetByID applies the same visibility rules as Visible: a ticket the viewer
// is not allowed to see reads as not found.
func (s *service) GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	var categoryIDs []uuid.UUID
	if viewer.Role == domain.RoleAdvisor {
		categoryIDs, err = s.userRepo.GetAdvisorCategoryIDs(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
	}
	if len(FilterVisible([]domain.Ticket{*ticket}, viewer.ID, viewer.Role, categoryIDs)) == 0 {
		return nil, ErrTicketNotFound
	}

	return ticket, nil
}

func (s *service) Create(ctx context.Context, creator *domain.User, input domain.CreateTicketInput) (*domain.Ticket, error) {
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.IsActive {
		return nil, ErrCategoryNotFound
	}

	ticket := &domain.Ticket{
		ID:          uuid.New(),
		CreatorID:   creator.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusOpen,
		IsUrgent:    input.IsUrgent,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	ticket.CreatorName = creator.FullName
	ticket.CategoryName = category.Name

	s.broker.Publish(domain.Event{
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		Kind:        domain.EventNewTicket,
		ActorName:   creator.FullName,
		OwnerID:     creator.ID,
	})

	s.emailAdvisorsForCategory(ctx, category.ID, creator.FullName, ticket.Title)

	return ticket, nil
}

func (s *service) UpdateDescription(ctx context.Context, userID uuid.UUID, id uuid.UUID, input domain.UpdateTicketInput) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if ticket.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if ticket.WasEdited {
		return nil, ErrAlreadyEdited
	}

	if err := s.ticketRepo.UpdateDescription(ctx, id, input.Title, input.Description); err != nil {
		return nil, err
	}

	ticket.Title = input.Title
	ticket.Description = input.Description
	ticket.WasEdited = true
	return ticket, nil
}

// Assign claims a ticket for an advisor. Administrators may assign any
// advisor; advisors may only claim for themselves, and only tickets that are
// unassigned and inside a category they cover.
func (s *service) Assign(ctx context.Context, actor *domain.User, ticketID, advisorID uuid.UUID) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}
	if ticket.Status == domain.StatusResolved {
		return ErrAlreadyResolved
	}

	if actor.Role != domain.RoleAdministrator {
		if advisorID != actor.ID {
			return ErrNotAssignedAdvisor
		}
		if ticket.AdvisorID != nil && *ticket.AdvisorID != actor.ID {
			return ErrAlreadyAssigned
		}
		categoryIDs, err := s.userRepo.GetAdvisorCategoryIDs(ctx, actor.ID)
		if err != nil {
			return err
		}
		if !containsID(categoryIDs, ticket.CategoryID) {
			return ErrCategoryNotCovered
		}
	}

	if err := s.ticketRepo.Assign(ctx, ticketID, advisorID); err != nil {
		return err
	}

	s.broker.Publish(domain.Event{
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		Kind:        domain.EventTicketAssigned,
		ActorName:   actor.FullName,
		OwnerID:     ticket.CreatorID,
		AdvisorID:   &advisorID,
	})

	return nil
}

// Resolve moves the ticket to its terminal state. Only the assigned advisor
// may resolve, and resolving twice is an error rather than a silent no-op.
func (s *service) Resolve(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}
	if ticket.AdvisorID == nil || *ticket.AdvisorID != actor.ID {
		return ErrNotAssignedAdvisor
	}
	if ticket.Status == domain.StatusResolved {
		return ErrAlreadyResolved
	}

	closedAt := time.Now()
	if err := s.ticketRepo.Resolve(ctx, id, closedAt); err != nil {
		return err
	}

	s.broker.Publish(domain.Event{
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		Kind:        domain.EventTicketResolved,
		ActorName:   actor.FullName,
		OwnerID:     ticket.CreatorID,
		AdvisorID:   ticket.AdvisorID,
	})

	s.emailCreatorOnResolve(ctx, ticket.CreatorID, actor.FullName, ticket.Title)

	return nil
}

func (s *service) Rate(ctx context.Context, actor *domain.User, id uuid.UUID, stars int) error {
	if stars < 1 || stars > 5 {
		return ErrRatingOutOfRange
	}

	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}
	if ticket.CreatorID != actor.ID {
		return ErrNotCreator
	}
	if ticket.Status != domain.StatusResolved {
		return ErrNotResolved
	}

	if err := s.ticketRepo.Rate(ctx, id, stars); err != nil {
		return err
	}

	s.broker.Publish(domain.Event{
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		Kind:        domain.EventNewRating,
		ActorName:   actor.FullName,
		OwnerID:     ticket.CreatorID,
		AdvisorID:   ticket.AdvisorID,
	})

	return nil
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}
	return s.ticketRepo.SoftDelete(ctx, id)
}

func (s *service) emailAdvisorsForCategory(ctx context.Context, categoryID uuid.UUID, creatorName, title string) {
	if s.emailSvc == nil {
		return
	}

	advisors, err := s.userRepo.ListAdvisorsForCategory(ctx, categoryID)
	if err != nil {
		log.Printf("Failed to load advisors for new ticket email: %v", err)
		return
	}

	for _, advisor := range advisors {
		if advisor.Email == "" {
			continue
		}
		go func(toEmail, advisorName string) {
			ctx := context.Background()
			if err := s.emailSvc.SendTicketCreatedEmail(ctx, toEmail, advisorName, creatorName, title); err != nil {
				log.Printf("Failed to send new ticket email to %s: %v", toEmail, err)
			}
		}(advisor.Email, advisor.FullName)
	}
}

func (s *service) emailCreatorOnResolve(ctx context.Context, creatorID uuid.UUID, advisorName, title string) {
	if s.emailSvc == nil {
		return
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil || creator == nil || creator.Email == "" {
		return
	}

	go func(toEmail, creatorName string) {
		ctx := context.Background()
		if err := s.emailSvc.SendTicketResolvedEmail(ctx, toEmail, creatorName, advisorName, title); err != nil {
			log.Printf("Failed to send resolution email to %s: %v", toEmail, err)
		}
	}(creator.Email, creator.FullName)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
