package report

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
)

// Params narrows a performance report. A nil AdvisorID means all advisors;
// From/To bound the ticket creation date, inclusive on both ends.
type Params struct {
	AdvisorID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

type CategoryBreakdown struct {
	CategoryName string  `json:"category_name"`
	Resolved     int64   `json:"resolved"`
	Share        float64 `json:"share"`
}

type Report struct {
	TotalResolved          int64               `json:"total_resolved"`
	AverageResolutionHours float64             `json:"average_resolution_hours"`
	AverageSatisfaction    float64             `json:"average_satisfaction"`
	ByCategory             []CategoryBreakdown `json:"by_category"`
}

type Service interface {
	Performance(ctx context.Context, viewer *domain.User, params Params) (*Report, error)
}

type service struct {
	ticketRepo repository.TicketRepository
}

func NewService(ticketRepo repository.TicketRepository) Service {
	return &service{ticketRepo: ticketRepo}
}

// Performance builds the resolution report. Advisors are always scoped to
// their own tickets regardless of the requested advisor.
func (s *service) Performance(ctx context.Context, viewer *domain.User, params Params) (*Report, error) {
	if viewer.Role == domain.RoleAdvisor {
		params.AdvisorID = &viewer.ID
	}

	filter := repository.ReportFilter{
		AdvisorID: params.AdvisorID,
		From:      params.From,
		To:        params.To,
	}

	avgHours, err := s.ticketRepo.AverageResolutionHours(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts, err := s.ticketRepo.CountResolvedByCategory(ctx, filter)
	if err != nil {
		return nil, err
	}

	avgSatisfaction, err := s.ticketRepo.AverageSatisfaction(ctx, repository.StatsFilter{AdvisorID: params.AdvisorID})
	if err != nil {
		return nil, err
	}

	report := &Report{
		AverageResolutionHours: math.Round(avgHours*100) / 100,
		AverageSatisfaction:    math.Round(avgSatisfaction*100) / 100,
		ByCategory:             make([]CategoryBreakdown, 0, len(counts)),
	}
	for _, c := range counts {
		report.TotalResolved += c.Count
		report.ByCategory = append(report.ByCategory, CategoryBreakdown{
			CategoryName: c.CategoryName,
			Resolved:     c.Count,
		})
	}

	// Shares are percentages of the total resolved count.
	if report.TotalResolved > 0 {
		for i := range report.ByCategory {
			share := float64(report.ByCategory[i].Resolved) / float64(report.TotalResolved) * 100
			report.ByCategory[i].Share = math.Round(share*100) / 100
		}
	}

	return report, nil
}
