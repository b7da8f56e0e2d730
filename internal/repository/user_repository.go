package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"helpdesk-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role domain.Role, activeOnly bool) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)

	GetAdvisorCategoryIDs(ctx context.Context, advisorID uuid.UUID) ([]uuid.UUID, error)
	SetAdvisorCategories(ctx context.Context, advisorID uuid.UUID, categoryIDs []uuid.UUID) error
	ListAdvisorsForCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, email, password_hash, full_name, avatar_url, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName,
		user.AvatarURL, user.Role, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, full_name = $3, avatar_url = $4, role = $5, is_active = $6, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.FullName, user.AvatarURL, user.Role, user.IsActive,
	).Scan(&user.UpdatedAt)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	return err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role, activeOnly bool) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users WHERE role = $1 ORDER BY full_name`
	if activeOnly {
		query = `SELECT * FROM users WHERE role = $1 AND is_active = true ORDER BY full_name`
	}
	err := r.db.SelectContext(ctx, &users, query, role)
	return users, err
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users ORDER BY full_name`
	err := r.db.SelectContext(ctx, &users, query)
	return users, err
}

func (r *userRepository) GetAdvisorCategoryIDs(ctx context.Context, advisorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT category_id FROM advisor_categories WHERE advisor_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, advisorID)
	return ids, err
}

// SetAdvisorCategories replaces the advisor's category assignments in one
// transaction.
func (r *userRepository) SetAdvisorCategories(ctx context.Context, advisorID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM advisor_categories WHERE advisor_id = $1`, advisorID); err != nil {
		return err
	}

	for _, catID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO advisor_categories (advisor_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			advisorID, catID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *userRepository) ListAdvisorsForCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.User, error) {
	var users []domain.User
	query := `
		SELECT u.*
		FROM users u
		INNER JOIN advisor_categories ac ON ac.advisor_id = u.user_id
		WHERE ac.category_id = $1 AND u.role = $2 AND u.is_active = true
		ORDER BY u.full_name`
	err := r.db.SelectContext(ctx, &users, query, categoryID, domain.RoleAdvisor)
	return users, err
}
