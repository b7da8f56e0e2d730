package ticket

import (
	"sort"

	"github.com/google/uuid"

	"helpdesk-api/internal/domain"
)

// FilterVisible computes which of the given tickets the requesting identity
// may see. Deleted tickets are expected to be excluded upstream.
//
//   - Administrator: everything.
//   - Advisor: tickets assigned to them, plus unassigned tickets whose
//     category is in advisorCategoryIDs.
//   - EndUser: tickets they created.
//   - Anything else fails closed to an empty slice.
//
// The result is ordered urgent first, then newest first; ties keep their
// input order. The input slice is never mutated.
func FilterVisible(tickets []domain.Ticket, userID uuid.UUID, role domain.Role, advisorCategoryIDs []uuid.UUID) []domain.Ticket {
	visible := make([]domain.Ticket, 0, len(tickets))

	switch role {
	case domain.RoleAdministrator:
		visible = append(visible, tickets...)

	case domain.RoleAdvisor:
		categories := make(map[uuid.UUID]struct{}, len(advisorCategoryIDs))
		for _, id := range advisorCategoryIDs {
			categories[id] = struct{}{}
		}
		for _, t := range tickets {
			if t.AdvisorID != nil && *t.AdvisorID == userID {
				visible = append(visible, t)
				continue
			}
			if t.AdvisorID == nil {
				if _, ok := categories[t.CategoryID]; ok {
					visible = append(visible, t)
				}
			}
		}

	case domain.RoleEndUser:
		for _, t := range tickets {
			if t.CreatorID == userID {
				visible = append(visible, t)
			}
		}

	default:
		return visible
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsUrgent != visible[j].IsUrgent {
			return visible[i].IsUrgent
		}
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	return visible
}
