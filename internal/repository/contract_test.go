package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-panel/internal/domain"
)

// runContract checks the behavior every backend must share.
func runContract(t *testing.T, users UserRepository, incidents IncidentRepository) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	ana := &domain.User{ID: "usr-ana", Name: "Ana", Email: "ana@x.com", CreatedAt: base}
	bruno := &domain.User{ID: "usr-bruno", Name: "Bruno", Email: "bruno@x.com", CreatedAt: base}
	require.NoError(t, users.Create(ctx, bruno))
	require.NoError(t, users.Create(ctx, ana))

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{ID: "usr-dup", Name: "Ana", Email: "ana@x.com", CreatedAt: base})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("user lookups", func(t *testing.T) {
		found, err := users.GetByEmail(ctx, "ana@x.com")
		require.NoError(t, err)
		assert.Equal(t, "usr-ana", found.ID)

		_, err = users.GetByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Ana", list[0].Name)
		assert.Equal(t, "Bruno", list[1].Name)
	})

	newIncident := func(n int, userID *string) *domain.Incident {
		return &domain.Incident{
			ID:          fmt.Sprintf("inc-%d", n),
			Title:       fmt.Sprintf("Incident %d", n),
			Description: "Something is broken somewhere",
			Priority:    domain.IncidentPriorityMedium,
			Area:        "Infra",
			Status:      domain.IncidentStatusOpen,
			CreatedAt:   base.Add(time.Duration(n) * time.Minute),
			UserID:      userID,
		}
	}

	t.Run("create joins assignee", func(t *testing.T) {
		anaID := ana.ID
		incident := newIncident(1, &anaID)
		require.NoError(t, incidents.Create(ctx, incident))
		require.NotNil(t, incident.AssignedTo)
		assert.Equal(t, "ana@x.com", incident.AssignedTo.Email)

		require.NoError(t, incidents.Create(ctx, newIncident(2, nil)))
		require.NoError(t, incidents.Create(ctx, newIncident(3, nil)))
	})

	t.Run("create rejects unknown user", func(t *testing.T) {
		ghost := "ghost"
		err := incidents.Create(ctx, newIncident(99, &ghost))
		assert.ErrorIs(t, err, ErrUnknownUser)
		_, err = incidents.GetByID(ctx, "inc-99")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := incidents.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"inc-3", "inc-2", "inc-1"}, []string{list[0].ID, list[1].ID, list[2].ID})
		assert.True(t, list[2].CreatedAt.Equal(base.Add(time.Minute)))
	})

	t.Run("update applies only the patch", func(t *testing.T) {
		closed := domain.IncidentStatusClosed
		updated, err := incidents.Update(ctx, "inc-1", domain.IncidentPatch{Status: &closed})
		require.NoError(t, err)
		assert.Equal(t, domain.IncidentStatusClosed, updated.Status)
		require.NotNil(t, updated.UserID)
		assert.Equal(t, "usr-ana", *updated.UserID)
		assert.Equal(t, "Incident 1", updated.Title)

		brunoID := bruno.ID
		updated, err = incidents.Update(ctx, "inc-1", domain.IncidentPatch{Assignee: domain.AssigneeChange{Set: true, UserID: &brunoID}})
		require.NoError(t, err)
		require.NotNil(t, updated.AssignedTo)
		assert.Equal(t, "Bruno", updated.AssignedTo.Name)
		assert.Equal(t, domain.IncidentStatusClosed, updated.Status)

		updated, err = incidents.Update(ctx, "inc-1", domain.IncidentPatch{Assignee: domain.AssigneeChange{Set: true}})
		require.NoError(t, err)
		assert.Nil(t, updated.UserID)
		assert.Nil(t, updated.AssignedTo)
	})

	t.Run("update errors", func(t *testing.T) {
		closed := domain.IncidentStatusClosed
		_, err := incidents.Update(ctx, "missing", domain.IncidentPatch{Status: &closed})
		assert.ErrorIs(t, err, ErrNotFound)

		ghost := "ghost"
		_, err = incidents.Update(ctx, "inc-2", domain.IncidentPatch{Assignee: domain.AssigneeChange{Set: true, UserID: &ghost}})
		assert.ErrorIs(t, err, ErrUnknownUser)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	store := NewMemoryStore()
	runContract(t, store.Users(), store.Incidents())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	incident := &domain.Incident{ID: "inc-1", Title: "Incident 1", Status: domain.IncidentStatusOpen}
	require.NoError(t, store.Incidents().Create(ctx, incident))

	incident.Title = "mutated"
	fetched, err := store.Incidents().GetByID(ctx, "inc-1")
	require.NoError(t, err)
	assert.Equal(t, "Incident 1", fetched.Title)
}
