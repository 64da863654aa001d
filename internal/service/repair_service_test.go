package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velotaller/repair-service/internal/domain"
	"github.com/velotaller/repair-service/internal/events"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

func TestRepairService_AdvanceStatusWalksCycle(t *testing.T) {
	cases := []struct {
		current domain.Status
		want    domain.Status
	}{
		{domain.StatusPending, domain.StatusInProgress},
		{domain.StatusInProgress, domain.StatusCompleted},
		{domain.StatusCompleted, domain.StatusPending},
	}
	for _, tc := range cases {
		t.Run(string(tc.current), func(t *testing.T) {
			repo := &recordingRepo{}
			s := NewRepairService(repo, nil)

			ticket := domain.Ticket{ID: "a", OrderManagement: domain.OrderManagement{Status: tc.current}}
			next, err := s.AdvanceStatus(context.Background(), ticket)
			require.NoError(t, err)
			assert.Equal(t, tc.want, next)
			assert.Equal(t, tc.want, repo.statusUpdates["a"])
		})
	}
}

func TestRepairService_AdvanceStatusPublishesTransition(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	var seen []events.Event
	dispatcher.Subscribe(events.EventRepairStatusChanged, func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	s := NewRepairService(&recordingRepo{}, dispatcher)
	ticket := domain.Ticket{ID: "a", OrderManagement: domain.OrderManagement{Status: domain.StatusPending}}

	_, err := s.AdvanceStatus(context.Background(), ticket)
	require.NoError(t, err)

	require.Len(t, seen, 1)
	payload, ok := seen[0].Payload.(events.RepairStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, payload.OldStatus)
	assert.Equal(t, domain.StatusInProgress, payload.NewStatus)
	assert.NotEmpty(t, seen[0].ID)
	assert.False(t, seen[0].Timestamp.IsZero())
}

func TestRepairService_AdvanceStatusPersistenceFailure(t *testing.T) {
	repo := &recordingRepo{failWith: errors.New("write denied")}
	s := NewRepairService(repo, nil)

	_, err := s.AdvanceStatus(context.Background(), domain.Ticket{ID: "a"})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
}

func TestRepairService_Delete(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	var seen []events.Event
	dispatcher.Subscribe(events.EventRepairDeleted, func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	repo := &recordingRepo{}
	s := NewRepairService(repo, dispatcher)

	require.NoError(t, s.Delete(context.Background(), "a"))
	assert.Equal(t, []string{"a"}, repo.deleted)
	require.Len(t, seen, 1)
	assert.Equal(t, "a", seen[0].TicketID)
}
