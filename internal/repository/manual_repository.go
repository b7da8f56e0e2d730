package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"helpdesk-api/internal/domain"
)

type ManualRepository interface {
	Create(ctx context.Context, manual *domain.Manual) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Manual, error)
	Update(ctx context.Context, manual *domain.Manual) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Manual, error)

	SetTags(ctx context.Context, manualID uuid.UUID, tags []string) error
	SetVisibleRoles(ctx context.Context, manualID uuid.UUID, roles []domain.Role) error
}

type manualRepository struct {
	db *sqlx.DB
}

func NewManualRepository(db *sqlx.DB) ManualRepository {
	return &manualRepository{db: db}
}

func (r *manualRepository) Create(ctx context.Context, manual *domain.Manual) error {
	query := `
		INSERT INTO manuals (manual_id, title, content_html, author_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		manual.ID, manual.Title, manual.ContentHTML, manual.AuthorID, manual.IsActive,
	).Scan(&manual.CreatedAt)
}

func (r *manualRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Manual, error) {
	var manual domain.Manual
	query := `
		SELECT m.manual_id, m.title, m.content_html, m.author_id, m.is_active, m.is_deleted,
		       m.created_at, m.updated_at, u.full_name AS author_name
		FROM manuals m
		INNER JOIN users u ON m.author_id = u.user_id
		WHERE m.manual_id = $1`

	err := r.db.GetContext(ctx, &manual, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadRelations(ctx, &manual); err != nil {
		return nil, err
	}
	return &manual, nil
}

func (r *manualRepository) Update(ctx context.Context, manual *domain.Manual) error {
	query := `
		UPDATE manuals
		SET title = $2, content_html = $3, is_active = $4, updated_at = NOW()
		WHERE manual_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		manual.ID, manual.Title, manual.ContentHTML, manual.IsActive,
	).Scan(&manual.UpdatedAt)
}

func (r *manualRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE manuals SET is_deleted = true, updated_at = NOW() WHERE manual_id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// HardDelete removes the manual together with its tags, visibility rows and
// history. Administrator only; the service enforces that.
func (r *manualRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM manual_logs WHERE manual_id = $1`,
		`DELETE FROM manual_tags WHERE manual_id = $1`,
		`DELETE FROM manual_role_visibility WHERE manual_id = $1`,
		`DELETE FROM manuals WHERE manual_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns every manual, deleted and inactive included; visibility rules
// are applied in the service layer where the caller's role is known.
func (r *manualRepository) List(ctx context.Context) ([]domain.Manual, error) {
	var manuals []domain.Manual
	query := `
		SELECT m.manual_id, m.title, m.content_html, m.author_id, m.is_active, m.is_deleted,
		       m.created_at, m.updated_at, u.full_name AS author_name
		FROM manuals m
		INNER JOIN users u ON m.author_id = u.user_id
		ORDER BY COALESCE(m.updated_at, m.created_at) DESC`

	if err := r.db.SelectContext(ctx, &manuals, query); err != nil {
		return nil, err
	}

	for i := range manuals {
		if err := r.loadRelations(ctx, &manuals[i]); err != nil {
			return nil, err
		}
	}
	return manuals, nil
}

func (r *manualRepository) loadRelations(ctx context.Context, manual *domain.Manual) error {
	if err := r.db.SelectContext(ctx, &manual.Tags,
		`SELECT tag FROM manual_tags WHERE manual_id = $1 ORDER BY tag`, manual.ID); err != nil {
		return err
	}
	return r.db.SelectContext(ctx, &manual.VisibleRoles,
		`SELECT role FROM manual_role_visibility WHERE manual_id = $1 ORDER BY role`, manual.ID)
}

func (r *manualRepository) SetTags(ctx context.Context, manualID uuid.UUID, tags []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM manual_tags WHERE manual_id = $1`, manualID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO manual_tags (manual_id, tag) VALUES ($1, $2)`, manualID, tag); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *manualRepository) SetVisibleRoles(ctx context.Context, manualID uuid.UUID, roles []domain.Role) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM manual_role_visibility WHERE manual_id = $1`, manualID); err != nil {
		return err
	}
	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO manual_role_visibility (manual_id, role) VALUES ($1, $2)`, manualID, role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
