package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
)

// Stats is the per-user dashboard summary. The numbers are scoped to what the
// viewer can see: administrators get global counts, advisors their assigned
// tickets, end users the tickets they created.
type Stats struct {
	TotalTickets        int64   `json:"total_tickets"`
	OpenTickets         int64   `json:"open_tickets"`
	ResolvedTickets     int64   `json:"resolved_tickets"`
	AverageSatisfaction float64 `json:"average_satisfaction"`
}

type Service interface {
	GetStats(ctx context.Context, viewer *domain.User) (*Stats, error)
}

type service struct {
	ticketRepo repository.TicketRepository
	redis      *redis.Client
}

func NewService(ticketRepo repository.TicketRepository, redisClient *redis.Client) Service {
	return &service{
		ticketRepo: ticketRepo,
		redis:      redisClient,
	}
}

func (s *service) GetStats(ctx context.Context, viewer *domain.User) (*Stats, error) {
	cacheKey := fmt.Sprintf("dashboard:stats:%s:%s", viewer.Role, viewer.ID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	var filter repository.StatsFilter
	switch viewer.Role {
	case domain.RoleAdministrator:
		// global view, no restriction
	case domain.RoleAdvisor:
		filter.AdvisorID = &viewer.ID
	default:
		filter.CreatorID = &viewer.ID
	}

	total, err := s.ticketRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resolved, err := s.ticketRepo.CountResolved(ctx, filter)
	if err != nil {
		return nil, err
	}

	avgSatisfaction, err := s.ticketRepo.AverageSatisfaction(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalTickets:        total,
		OpenTickets:         total - resolved,
		ResolvedTickets:     resolved,
		AverageSatisfaction: math.Round(avgSatisfaction*100) / 100,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, 2*time.Minute).Err()
		}
	}

	return stats, nil
}
