package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"helpdesk-api/internal/domain"
)

type ManualLogRepository interface {
	Create(ctx context.Context, log *domain.ManualLog) error
	ListByManual(ctx context.Context, manualID uuid.UUID) ([]domain.ManualLog, error)
}

type manualLogRepository struct {
	db *sqlx.DB
}

func NewManualLogRepository(db *sqlx.DB) ManualLogRepository {
	return &manualLogRepository{db: db}
}

func (r *manualLogRepository) Create(ctx context.Context, log *domain.ManualLog) error {
	query := `
		INSERT INTO manual_logs (log_id, manual_id, user_id, action, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		log.ID, log.ManualID, log.UserID, log.Action, log.Detail,
	).Scan(&log.CreatedAt)
}

func (r *manualLogRepository) ListByManual(ctx context.Context, manualID uuid.UUID) ([]domain.ManualLog, error) {
	var logs []domain.ManualLog
	query := `
		SELECT
			l.log_id, l.manual_id, l.user_id, l.action, l.detail, l.created_at,
			u.full_name AS user_name
		FROM manual_logs l
		LEFT JOIN users u ON l.user_id = u.user_id
		WHERE l.manual_id = $1
		ORDER BY l.created_at DESC`

	err := r.db.SelectContext(ctx, &logs, query, manualID)
	return logs, err
}
