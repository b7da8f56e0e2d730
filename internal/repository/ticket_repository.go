package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"helpdesk-api/internal/domain"
)

// StatsFilter narrows ticket aggregates to one identity. Nil fields mean no
// restriction (the administrator view).
type StatsFilter struct {
	AdvisorID *uuid.UUID
	CreatorID *uuid.UUID
}

// ReportFilter narrows report queries by advisor and creation date range.
type ReportFilter struct {
	AdvisorID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

type CategoryCount struct {
	CategoryName string `db:"category_name"`
	Count        int64  `db:"count"`
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, title, description string) error
	Assign(ctx context.Context, id, advisorID uuid.UUID) error
	Resolve(ctx context.Context, id uuid.UUID, closedAt time.Time) error
	Rate(ctx context.Context, id uuid.UUID, stars int) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context, f StatsFilter) (int64, error)
	CountResolved(ctx context.Context, f StatsFilter) (int64, error)
	AverageSatisfaction(ctx context.Context, f StatsFilter) (float64, error)

	AverageResolutionHours(ctx context.Context, f ReportFilter) (float64, error)
	CountResolvedByCategory(ctx context.Context, f ReportFilter) ([]CategoryCount, error)
}

type ticketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketSelect = `
	SELECT
		t.ticket_id, t.creator_id, t.advisor_id, t.category_id, t.title, t.description,
		t.status, t.is_urgent, t.was_edited, t.satisfaction, t.created_at, t.closed_at, t.is_deleted,
		cu.full_name AS creator_name,
		au.full_name AS advisor_name,
		c.name AS category_name
	FROM tickets t
	INNER JOIN users cu ON t.creator_id = cu.user_id
	LEFT JOIN users au ON t.advisor_id = au.user_id
	INNER JOIN categories c ON t.category_id = c.category_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (ticket_id, creator_id, category_id, title, description, status, is_urgent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		ticket.ID, ticket.CreatorID, ticket.CategoryID,
		ticket.Title, ticket.Description, ticket.Status, ticket.IsUrgent,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	query := ticketSelect + ` WHERE t.ticket_id = $1 AND t.is_deleted = false`

	err := r.db.GetContext(ctx, &ticket, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListAll returns every non-deleted ticket, urgent first, newest first. Role
// visibility is applied in the service on top of this.
func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	query := ticketSelect + `
	WHERE t.is_deleted = false
	ORDER BY t.is_urgent DESC, t.created_at DESC`

	err := r.db.SelectContext(ctx, &tickets, query)
	return tickets, err
}

func (r *ticketRepository) UpdateDescription(ctx context.Context, id uuid.UUID, title, description string) error {
	query := `
		UPDATE tickets SET title = $2, description = $3, was_edited = true
		WHERE ticket_id = $1 AND is_deleted = false`
	_, err := r.db.ExecContext(ctx, query, id, title, description)
	return err
}

func (r *ticketRepository) Assign(ctx context.Context, id, advisorID uuid.UUID) error {
	query := `
		UPDATE tickets SET advisor_id = $2, status = $3
		WHERE ticket_id = $1 AND is_deleted = false`
	_, err := r.db.ExecContext(ctx, query, id, advisorID, domain.StatusAssigned)
	return err
}

func (r *ticketRepository) Resolve(ctx context.Context, id uuid.UUID, closedAt time.Time) error {
	query := `
		UPDATE tickets SET status = $2, closed_at = $3
		WHERE ticket_id = $1 AND is_deleted = false`
	_, err := r.db.ExecContext(ctx, query, id, domain.StatusResolved, closedAt)
	return err
}

func (r *ticketRepository) Rate(ctx context.Context, id uuid.UUID, stars int) error {
	query := `UPDATE tickets SET satisfaction = $2 WHERE ticket_id = $1 AND is_deleted = false`
	_, err := r.db.ExecContext(ctx, query, id, stars)
	return err
}

func (r *ticketRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE tickets SET is_deleted = true WHERE ticket_id = $1 AND is_deleted = false`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func statsWhere(f StatsFilter) (string, []interface{}) {
	where := ` WHERE is_deleted = false`
	var args []interface{}
	if f.AdvisorID != nil {
		args = append(args, *f.AdvisorID)
		where += ` AND advisor_id = $1`
	} else if f.CreatorID != nil {
		args = append(args, *f.CreatorID)
		where += ` AND creator_id = $1`
	}
	return where, args
}

func (r *ticketRepository) Count(ctx context.Context, f StatsFilter) (int64, error) {
	where, args := statsWhere(f)
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tickets`+where, args...)
	return count, err
}

func (r *ticketRepository) CountResolved(ctx context.Context, f StatsFilter) (int64, error) {
	where, args := statsWhere(f)
	var count int64
	query := `SELECT COUNT(*) FROM tickets` + where + ` AND status = '` + string(domain.StatusResolved) + `'`
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

func (r *ticketRepository) AverageSatisfaction(ctx context.Context, f StatsFilter) (float64, error) {
	where, args := statsWhere(f)
	var avg float64
	query := `SELECT COALESCE(AVG(satisfaction), 0) FROM tickets` + where + ` AND satisfaction IS NOT NULL`
	err := r.db.GetContext(ctx, &avg, query, args...)
	return avg, err
}

func reportWhere(f ReportFilter) (string, []interface{}) {
	where := ` WHERE t.is_deleted = false AND t.status = '` + string(domain.StatusResolved) + `'`
	var args []interface{}
	n := 0
	if f.AdvisorID != nil {
		n++
		args = append(args, *f.AdvisorID)
		where += ` AND t.advisor_id = $` + strconv.Itoa(n)
	}
	if f.From != nil {
		n++
		args = append(args, *f.From)
		where += ` AND t.created_at >= $` + strconv.Itoa(n)
	}
	if f.To != nil {
		n++
		// inclusive end of day
		args = append(args, f.To.AddDate(0, 0, 1))
		where += ` AND t.created_at < $` + strconv.Itoa(n)
	}
	return where, args
}

func (r *ticketRepository) AverageResolutionHours(ctx context.Context, f ReportFilter) (float64, error) {
	where, args := reportWhere(f)
	var avg float64
	query := `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (t.closed_at - t.created_at)) / 3600), 0)
		FROM tickets t` + where + ` AND t.closed_at IS NOT NULL`
	err := r.db.GetContext(ctx, &avg, query, args...)
	return avg, err
}

func (r *ticketRepository) CountResolvedByCategory(ctx context.Context, f ReportFilter) ([]CategoryCount, error) {
	where, args := reportWhere(f)
	var counts []CategoryCount
	query := `
		SELECT c.name AS category_name, COUNT(*) AS count
		FROM tickets t
		INNER JOIN categories c ON t.category_id = c.category_id` + where + `
		GROUP BY c.name
		ORDER BY count DESC`
	err := r.db.SelectContext(ctx, &counts, query, args...)
	return counts, err
}
