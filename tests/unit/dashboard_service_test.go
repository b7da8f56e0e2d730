package unit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
	"helpdesk-api/internal/service/dashboard"
	"helpdesk-api/internal/service/report"
	"helpdesk-api/tests/mocks"
)

func TestDashboardService_GetStats_Scoping(t *testing.T) {
	ctx := context.Background()

	t.Run("Administrator gets unscoped counts", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc := dashboard.NewService(ticketRepo, nil)

		admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdministrator}
		unscoped := repository.StatsFilter{}

		ticketRepo.On("Count", ctx, unscoped).Return(int64(10), nil).Once()
		ticketRepo.On("CountResolved", ctx, unscoped).Return(int64(4), nil).Once()
		ticketRepo.On("AverageSatisfaction", ctx, unscoped).Return(4.333, nil).Once()

		stats, err := svc.GetStats(ctx, admin)

		require.NoError(t, err)
		assert.Equal(t, int64(10), stats.TotalTickets)
		assert.Equal(t, int64(6), stats.OpenTickets)
		assert.Equal(t, int64(4), stats.ResolvedTickets)
		assert.Equal(t, 4.33, stats.AverageSatisfaction)
	})

	t.Run("Advisor scoped to assigned tickets", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc := dashboard.NewService(ticketRepo, nil)

		advisor := &domain.User{ID: uuid.New(), Role: domain.RoleAdvisor}

		matchAdvisor := mock.MatchedBy(func(f repository.StatsFilter) bool {
			return f.AdvisorID != nil && *f.AdvisorID == advisor.ID && f.CreatorID == nil
		})
		ticketRepo.On("Count", ctx, matchAdvisor).Return(int64(3), nil).Once()
		ticketRepo.On("CountResolved", ctx, matchAdvisor).Return(int64(1), nil).Once()
		ticketRepo.On("AverageSatisfaction", ctx, matchAdvisor).Return(5.0, nil).Once()

		stats, err := svc.GetStats(ctx, advisor)

		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalTickets)
	})

	t.Run("End user scoped to created tickets", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc := dashboard.NewService(ticketRepo, nil)

		endUser := &domain.User{ID: uuid.New(), Role: domain.RoleEndUser}

		matchCreator := mock.MatchedBy(func(f repository.StatsFilter) bool {
			return f.CreatorID != nil && *f.CreatorID == endUser.ID && f.AdvisorID == nil
		})
		ticketRepo.On("Count", ctx, matchCreator).Return(int64(2), nil).Once()
		ticketRepo.On("CountResolved", ctx, matchCreator).Return(int64(2), nil).Once()
		ticketRepo.On("AverageSatisfaction", ctx, matchCreator).Return(0.0, nil).Once()

		stats, err := svc.GetStats(ctx, endUser)

		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.OpenTickets)
	})
}

func TestReportService_Performance(t *testing.T) {
	ctx := context.Background()

	t.Run("Totals summed across categories", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc := report.NewService(ticketRepo)

		admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdministrator}

		ticketRepo.On("AverageResolutionHours", ctx, mock.Anything).Return(12.3456, nil).Once()
		ticketRepo.On("CountResolvedByCategory", ctx, mock.Anything).Return([]repository.CategoryCount{
			{CategoryName: "Hardware", Count: 7},
			{CategoryName: "Software", Count: 3},
		}, nil).Once()
		ticketRepo.On("AverageSatisfaction", ctx, mock.Anything).Return(4.5, nil).Once()

		got, err := svc.Performance(ctx, admin, report.Params{})

		require.NoError(t, err)
		assert.Equal(t, int64(10), got.TotalResolved)
		assert.Equal(t, 12.35, got.AverageResolutionHours)
		require.Len(t, got.ByCategory, 2)
		assert.Equal(t, "Hardware", got.ByCategory[0].CategoryName)
		assert.Equal(t, 70.0, got.ByCategory[0].Share)
		assert.Equal(t, 30.0, got.ByCategory[1].Share)
	})

	t.Run("Shares rounded and zero-safe", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc := report.NewService(ticketRepo)

		admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdministrator}

		ticketRepo.On("AverageResolutionHours", ctx, mock.Anything).Return(0.0, nil).Twice()
		ticketRepo.On("AverageSatisfaction", ctx, mock.Anything).Return(0.0, nil).Twice()
		ticketRepo.On("CountResolvedByCategory", ctx, mock.Anything).Return([]repository.CategoryCount{
			{CategoryName: "Hardware", Count: 1},
			{CategoryName: "Software", Count: 2},
		}, nil).Once()

		got, err := svc.Performance(ctx, admin, report.Params{})
		require.NoError(t, err)
		assert.Equal(t, 33.33, got.ByCategory[0].Share)
		assert.Equal(t, 66.67, got.ByCategory[1].Share)

		// No resolved tickets means no division.
		ticketRepo.On("CountResolvedByCategory", ctx, mock.Anything).Return([]repository.CategoryCount{}, nil).Once()
		got, err = svc.Performance(ctx, admin, report.Params{})
		require.NoError(t, err)
		assert.Empty(t, got.ByCategory)
	})

	t.Run("Advisor always scoped to self", func(t *testing.T) {
		ticketRepo := new(mocks.TicketRepository)
		svc := report.NewService(ticketRepo)

		advisor := &domain.User{ID: uuid.New(), Role: domain.RoleAdvisor}
		otherAdvisor := uuid.New()

		matchSelf := mock.MatchedBy(func(f repository.ReportFilter) bool {
			return f.AdvisorID != nil && *f.AdvisorID == advisor.ID
		})
		ticketRepo.On("AverageResolutionHours", ctx, matchSelf).Return(1.0, nil).Once()
		ticketRepo.On("CountResolvedByCategory", ctx, matchSelf).Return([]repository.CategoryCount{}, nil).Once()
		ticketRepo.On("AverageSatisfaction", ctx, mock.Anything).Return(0.0, nil).Once()

		// Asking for another advisor's numbers is silently overridden.
		_, err := svc.Performance(ctx, advisor, report.Params{AdvisorID: &otherAdvisor})

		require.NoError(t, err)
		ticketRepo.AssertExpectations(t)
	})
}
