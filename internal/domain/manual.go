package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manual is a knowledge-base article. Visibility is role based: a manual with
// no visible-role rows is public, otherwise only the listed roles (and
// administrators) can see it.
type Manual struct {
	ID          uuid.UUID  `json:"id" db:"manual_id"`
	Title       string     `json:"title" db:"title"`
	ContentHTML string     `json:"content_html" db:"content_html"`
	AuthorID    uuid.UUID  `json:"author_id" db:"author_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	IsDeleted   bool       `json:"-" db:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	AuthorName   string   `json:"author_name,omitempty" db:"author_name"`
	Tags         []string `json:"tags,omitempty"`
	VisibleRoles []Role   `json:"visible_roles,omitempty"`
}

type ManualLog struct {
	ID        uuid.UUID `json:"id" db:"log_id"`
	ManualID  uuid.UUID `json:"manual_id" db:"manual_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Detail    *string   `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	UserName *string `json:"user_name,omitempty" db:"user_name"`
}

// Manual log actions.
const (
	ManualActionCreated     = "Created"
	ManualActionUpdated     = "Updated"
	ManualActionDeactivated = "Deactivated"
	ManualActionActivated   = "Activated"
	ManualActionSoftDeleted = "SoftDeleted"
)

type SaveManualInput struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	ContentHTML  string   `json:"content_html" validate:"required"`
	Tags         []string `json:"tags"`
	VisibleRoles []Role   `json:"visible_roles"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// NormalizeTags trims and case-insensitively dedupes a tag list, preserving
// first-seen casing and order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
