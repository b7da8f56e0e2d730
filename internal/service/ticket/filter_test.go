package ticket_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/service/ticket"
)

func makeTicket(creator uuid.UUID, advisor *uuid.UUID, category uuid.UUID, urgent bool, createdAt time.Time) domain.Ticket {
	return domain.Ticket{
		ID:         uuid.New(),
		CreatorID:  creator,
		AdvisorID:  advisor,
		CategoryID: category,
		Status:     domain.StatusOpen,
		IsUrgent:   urgent,
		CreatedAt:  createdAt,
	}
}

func TestFilterVisible_Roles(t *testing.T) {
	now := time.Now()
	admin := uuid.New()
	advisor := uuid.New()
	otherAdvisor := uuid.New()
	endUser := uuid.New()
	otherUser := uuid.New()
	hardware := uuid.New()
	software := uuid.New()

	mine := makeTicket(endUser, nil, hardware, false, now.Add(-1*time.Hour))
	assignedToMe := makeTicket(otherUser, &advisor, software, false, now.Add(-2*time.Hour))
	assignedToOther := makeTicket(otherUser, &otherAdvisor, hardware, false, now.Add(-3*time.Hour))
	unassignedCovered := makeTicket(otherUser, nil, hardware, false, now.Add(-4*time.Hour))
	unassignedUncovered := makeTicket(otherUser, nil, software, false, now.Add(-5*time.Hour))

	all := []domain.Ticket{mine, assignedToMe, assignedToOther, unassignedCovered, unassignedUncovered}

	t.Run("administrator sees everything", func(t *testing.T) {
		got := ticket.FilterVisible(all, admin, domain.RoleAdministrator, nil)
		assert.Len(t, got, len(all))
	})

	t.Run("advisor sees assigned-to-me and unassigned in covered categories", func(t *testing.T) {
		got := ticket.FilterVisible(all, advisor, domain.RoleAdvisor, []uuid.UUID{hardware})

		require.Len(t, got, 3)
		ids := []uuid.UUID{got[0].ID, got[1].ID, got[2].ID}
		assert.Contains(t, ids, assignedToMe.ID)
		assert.Contains(t, ids, mine.ID)
		assert.Contains(t, ids, unassignedCovered.ID)
		assert.NotContains(t, ids, assignedToOther.ID)
		assert.NotContains(t, ids, unassignedUncovered.ID)
	})

	t.Run("advisor with no categories sees only own assignments", func(t *testing.T) {
		got := ticket.FilterVisible(all, advisor, domain.RoleAdvisor, nil)

		require.Len(t, got, 1)
		assert.Equal(t, assignedToMe.ID, got[0].ID)
	})

	t.Run("end user sees only own tickets", func(t *testing.T) {
		got := ticket.FilterVisible(all, endUser, domain.RoleEndUser, nil)

		require.Len(t, got, 1)
		assert.Equal(t, mine.ID, got[0].ID)
	})

	t.Run("unknown role fails closed", func(t *testing.T) {
		got := ticket.FilterVisible(all, admin, domain.Role("Superuser"), nil)
		assert.Empty(t, got)
	})
}

func TestFilterVisible_Ordering(t *testing.T) {
	now := time.Now()
	admin := uuid.New()
	creator := uuid.New()
	category := uuid.New()

	oldUrgent := makeTicket(creator, nil, category, true, now.Add(-3*time.Hour))
	newUrgent := makeTicket(creator, nil, category, true, now.Add(-1*time.Hour))
	oldNormal := makeTicket(creator, nil, category, false, now.Add(-4*time.Hour))
	newNormal := makeTicket(creator, nil, category, false, now.Add(-2*time.Hour))

	got := ticket.FilterVisible(
		[]domain.Ticket{oldNormal, oldUrgent, newNormal, newUrgent},
		admin, domain.RoleAdministrator, nil,
	)

	require.Len(t, got, 4)
	assert.Equal(t, newUrgent.ID, got[0].ID)
	assert.Equal(t, oldUrgent.ID, got[1].ID)
	assert.Equal(t, newNormal.ID, got[2].ID)
	assert.Equal(t, oldNormal.ID, got[3].ID)
}

func TestFilterVisible_StableOnEqualTimestamps(t *testing.T) {
	now := time.Now()
	admin := uuid.New()
	creator := uuid.New()
	category := uuid.New()

	first := makeTicket(creator, nil, category, false, now)
	second := makeTicket(creator, nil, category, false, now)
	third := makeTicket(creator, nil, category, false, now)

	got := ticket.FilterVisible(
		[]domain.Ticket{first, second, third},
		admin, domain.RoleAdministrator, nil,
	)

	require.Len(t, got, 3)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, third.ID, got[2].ID)
}

func TestFilterVisible_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	admin := uuid.New()
	creator := uuid.New()
	category := uuid.New()

	a := makeTicket(creator, nil, category, false, now.Add(-2*time.Hour))
	b := makeTicket(creator, nil, category, true, now.Add(-1*time.Hour))
	input := []domain.Ticket{a, b}

	_ = ticket.FilterVisible(input, admin, domain.RoleAdministrator, nil)

	assert.Equal(t, a.ID, input[0].ID)
	assert.Equal(t, b.ID, input[1].ID)
}

func TestFilterVisible_EmptyInput(t *testing.T) {
	got := ticket.FilterVisible(nil, uuid.New(), domain.RoleAdministrator, nil)
	assert.Empty(t, got)
}
