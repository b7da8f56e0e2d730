package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/service/notification"
	"helpdesk-api/internal/service/ticket"
	"helpdesk-api/tests/mocks"
)

func newTicketService(ticketRepo *mocks.TicketRepository, userRepo *mocks.UserRepository, categoryRepo *mocks.CategoryRepository) (ticket.Service, *notification.Broker) {
	broker := notification.NewBroker()
	svc := ticket.NewService(ticketRepo, userRepo, categoryRepo, broker, nil)
	return svc, broker
}

func TestTicketService_Create(t *testing.T) {
	ctx := context.Background()
	creator := &domain.User{ID: uuid.New(), FullName: "End User", Role: domain.RoleEndUser}
	categoryID := uuid.New()

	input := domain.CreateTicketInput{
		CategoryID:  categoryID,
		Title:       "Printer on fire",
		Description: "It is literally on fire",
		IsUrgent:    true,
	}

	t.Run("Success publishes NewTicket", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		categoryRepo := new(mocks.CategoryRepository)
		svc, broker := newTicketService(ticketRepo, userRepo, categoryRepo)

		var received []domain.Event
		unsubscribe := broker.Subscribe(func(e domain.Event) {
			received = append(received, e)
		})
		defer unsubscribe()

		categoryRepo.On("GetByID", ctx, categoryID).
			Return(&domain.Category{ID: categoryID, Name: "Hardware", IsActive: true}, nil).Once()
		ticketRepo.On("Create", ctx, mock.MatchedBy(func(tk *domain.Ticket) bool {
			return tk.CreatorID == creator.ID && tk.Status == domain.StatusOpen && tk.IsUrgent
		})).Return(nil).Once()

		created, err := svc.Create(ctx, creator, input)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, domain.StatusOpen, created.Status)

		require.Len(t, received, 1)
		assert.Equal(t, domain.EventNewTicket, received[0].Kind)
		assert.Equal(t, creator.FullName, received[0].ActorName)
		assert.Equal(t, creator.ID, received[0].OwnerID)
		ticketRepo.AssertExpectations(t)
	})

	t.Run("Inactive category rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		categoryRepo := new(mocks.CategoryRepository)
		svc, _ := newTicketService(ticketRepo, userRepo, categoryRepo)

		categoryRepo.On("GetByID", ctx, categoryID).
			Return(&domain.Category{ID: categoryID, Name: "Hardware", IsActive: false}, nil).Once()

		created, err := svc.Create(ctx, creator, input)

		assert.ErrorIs(t, err, ticket.ErrCategoryNotFound)
		assert.Nil(t, created)
		ticketRepo.AssertNotCalled(t, "Create")
	})
}

func TestTicketService_UpdateDescription(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()
	ticketID := uuid.New()
	input := domain.UpdateTicketInput{Title: "New title", Description: "New description"}

	t.Run("First edit succeeds and marks edited", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		ticketRepo.On("GetByID", ctx, ticketID).
			Return(&domain.Ticket{ID: ticketID, CreatorID: creatorID, Status: domain.StatusOpen}, nil).Once()
		ticketRepo.On("UpdateDescription", ctx, ticketID, input.Title, input.Description).Return(nil).Once()

		updated, err := svc.UpdateDescription(ctx, creatorID, ticketID, input)

		require.NoError(t, err)
		assert.True(t, updated.WasEdited)
		ticketRepo.AssertExpectations(t)
	})

	t.Run("Second edit rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		ticketRepo.On("GetByID", ctx, ticketID).
			Return(&domain.Ticket{ID: ticketID, CreatorID: creatorID, WasEdited: true}, nil).Once()

		_, err := svc.UpdateDescription(ctx, creatorID, ticketID, input)

		assert.ErrorIs(t, err, ticket.ErrAlreadyEdited)
		ticketRepo.AssertNotCalled(t, "UpdateDescription")
	})

	t.Run("Non-creator rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		ticketRepo.On("GetByID", ctx, ticketID).
			Return(&domain.Ticket{ID: ticketID, CreatorID: creatorID}, nil).Once()

		_, err := svc.UpdateDescription(ctx, uuid.New(), ticketID, input)

		assert.ErrorIs(t, err, ticket.ErrNotCreator)
	})
}

func TestTicketService_Assign(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()
	categoryID := uuid.New()
	advisor := &domain.User{ID: uuid.New(), FullName: "Advisor", Role: domain.RoleAdvisor}

	openTicket := func() *domain.Ticket {
		return &domain.Ticket{
			ID:         ticketID,
			CreatorID:  uuid.New(),
			CategoryID: categoryID,
			Status:     domain.StatusOpen,
		}
	}

	t.Run("Advisor claims ticket in covered category", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		svc, broker := newTicketService(ticketRepo, userRepo, new(mocks.CategoryRepository))

		var received []domain.Event
		defer broker.Subscribe(func(e domain.Event) { received = append(received, e) })()

		ticketRepo.On("GetByID", ctx, ticketID).Return(openTicket(), nil).Once()
		userRepo.On("GetAdvisorCategoryIDs", ctx, advisor.ID).Return([]uuid.UUID{categoryID}, nil).Once()
		ticketRepo.On("Assign", ctx, ticketID, advisor.ID).Return(nil).Once()

		err := svc.Assign(ctx, advisor, ticketID, advisor.ID)

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, domain.EventTicketAssigned, received[0].Kind)
		require.NotNil(t, received[0].AdvisorID)
		assert.Equal(t, advisor.ID, *received[0].AdvisorID)
	})

	t.Run("Advisor cannot claim uncovered category", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		svc, _ := newTicketService(ticketRepo, userRepo, new(mocks.CategoryRepository))

		ticketRepo.On("GetByID", ctx, ticketID).Return(openTicket(), nil).Once()
		userRepo.On("GetAdvisorCategoryIDs", ctx, advisor.ID).Return([]uuid.UUID{uuid.New()}, nil).Once()

		err := svc.Assign(ctx, advisor, ticketID, advisor.ID)

		assert.ErrorIs(t, err, ticket.ErrCategoryNotCovered)
		ticketRepo.AssertNotCalled(t, "Assign")
	})

	t.Run("Advisor cannot take a ticket assigned to someone else", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		other := uuid.New()
		taken := openTicket()
		taken.AdvisorID = &other
		taken.Status = domain.StatusAssigned
		ticketRepo.On("GetByID", ctx, ticketID).Return(taken, nil).Once()

		err := svc.Assign(ctx, advisor, ticketID, advisor.ID)

		assert.ErrorIs(t, err, ticket.ErrAlreadyAssigned)
	})

	t.Run("Administrator assigns any advisor", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		admin := &domain.User{ID: uuid.New(), FullName: "Admin", Role: domain.RoleAdministrator}
		targetAdvisor := uuid.New()
		ticketRepo.On("GetByID", ctx, ticketID).Return(openTicket(), nil).Once()
		ticketRepo.On("Assign", ctx, ticketID, targetAdvisor).Return(nil).Once()

		err := svc.Assign(ctx, admin, ticketID, targetAdvisor)

		require.NoError(t, err)
		ticketRepo.AssertExpectations(t)
	})

	t.Run("Resolved ticket cannot be reassigned", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		resolved := openTicket()
		resolved.Status = domain.StatusResolved
		ticketRepo.On("GetByID", ctx, ticketID).Return(resolved, nil).Once()

		err := svc.Assign(ctx, advisor, ticketID, advisor.ID)

		assert.ErrorIs(t, err, ticket.ErrAlreadyResolved)
	})
}

func TestTicketService_Resolve(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()
	advisor := &domain.User{ID: uuid.New(), FullName: "Advisor", Role: domain.RoleAdvisor}

	assignedTicket := func() *domain.Ticket {
		return &domain.Ticket{
			ID:        ticketID,
			CreatorID: uuid.New(),
			AdvisorID: &advisor.ID,
			Status:    domain.StatusAssigned,
		}
	}

	t.Run("Assigned advisor resolves", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		svc, broker := newTicketService(ticketRepo, userRepo, new(mocks.CategoryRepository))

		var received []domain.Event
		defer broker.Subscribe(func(e domain.Event) { received = append(received, e) })()

		ticketRepo.On("GetByID", ctx, ticketID).Return(assignedTicket(), nil).Once()
		ticketRepo.On("Resolve", ctx, ticketID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		err := svc.Resolve(ctx, advisor, ticketID)

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, domain.EventTicketResolved, received[0].Kind)
	})

	t.Run("Other advisor cannot resolve", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		other := &domain.User{ID: uuid.New(), Role: domain.RoleAdvisor}
		ticketRepo.On("GetByID", ctx, ticketID).Return(assignedTicket(), nil).Once()

		err := svc.Resolve(ctx, other, ticketID)

		assert.ErrorIs(t, err, ticket.ErrNotAssignedAdvisor)
		ticketRepo.AssertNotCalled(t, "Resolve")
	})

	t.Run("Resolving twice is rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		now := time.Now()
		resolved := assignedTicket()
		resolved.Status = domain.StatusResolved
		resolved.ClosedAt = &now
		ticketRepo.On("GetByID", ctx, ticketID).Return(resolved, nil).Once()

		err := svc.Resolve(ctx, advisor, ticketID)

		assert.ErrorIs(t, err, ticket.ErrAlreadyResolved)
		ticketRepo.AssertNotCalled(t, "Resolve")
	})
}

func TestTicketService_Rate(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()
	creator := &domain.User{ID: uuid.New(), FullName: "End User", Role: domain.RoleEndUser}

	resolvedTicket := func() *domain.Ticket {
		advisorID := uuid.New()
		return &domain.Ticket{
			ID:        ticketID,
			CreatorID: creator.ID,
			AdvisorID: &advisorID,
			Status:    domain.StatusResolved,
		}
	}

	t.Run("Creator rates resolved ticket", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, broker := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		var received []domain.Event
		defer broker.Subscribe(func(e domain.Event) { received = append(received, e) })()

		ticketRepo.On("GetByID", ctx, ticketID).Return(resolvedTicket(), nil).Once()
		ticketRepo.On("Rate", ctx, ticketID, 4).Return(nil).Once()

		err := svc.Rate(ctx, creator, ticketID, 4)

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, domain.EventNewRating, received[0].Kind)
	})

	t.Run("Out of range rating rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		for _, stars := range []int{0, -1, 6, 100} {
			err := svc.Rate(ctx, creator, ticketID, stars)
			assert.ErrorIs(t, err, ticket.ErrRatingOutOfRange)
		}
		ticketRepo.AssertNotCalled(t, "Rate")
	})

	t.Run("Non-creator rejected", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		ticketRepo.On("GetByID", ctx, ticketID).Return(resolvedTicket(), nil).Once()

		err := svc.Rate(ctx, &domain.User{ID: uuid.New(), Role: domain.RoleAdvisor}, ticketID, 3)

		assert.ErrorIs(t, err, ticket.ErrNotCreator)
	})

	t.Run("Unresolved ticket cannot be rated", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc, _ := newTicketService(ticketRepo, new(mocks.UserRepository), new(mocks.CategoryRepository))

		open := resolvedTicket()
		open.Status = domain.StatusAssigned
		ticketRepo.On("GetByID", ctx, ticketID).Return(open, nil).Once()

		err := svc.Rate(ctx, creator, ticketID, 3)

		assert.ErrorIs(t, err, ticket.ErrNotResolved)
	})
}

func TestTicketService_Visible(t *testing.T) {
	ctx := context.Background()

	t.Run("Advisor categories resolved before filtering", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		svc, _ := newTicketService(ticketRepo, userRepo, new(mocks.CategoryRepository))

		advisorID := uuid.New()
		categoryID := uuid.New()
		visible := domain.Ticket{ID: uuid.New(), CreatorID: uuid.New(), CategoryID: categoryID}
		hidden := domain.Ticket{ID: uuid.New(), CreatorID: uuid.New(), CategoryID: uuid.New()}

		ticketRepo.On("ListAll", ctx).Return([]domain.Ticket{visible, hidden}, nil).Once()
		userRepo.On("GetAdvisorCategoryIDs", ctx, advisorID).Return([]uuid.UUID{categoryID}, nil).Once()

		got, err := svc.Visible(ctx, advisorID, domain.RoleAdvisor)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, visible.ID, got[0].ID)
	})

	t.Run("End user skips category lookup", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		userRepo := new(mocks.UserRepository)
		svc, _ := newTicketService(ticketRepo, userRepo, new(mocks.CategoryRepository))

		userID := uuid.New()
		ticketRepo.On("ListAll", ctx).Return([]domain.Ticket{}, nil).Once()

		_, err := svc.Visible(ctx, userID, domain.RoleEndUser)

		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "GetAdvisorCategoryIDs")
	})
}
