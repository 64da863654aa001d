package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velotaller/repair-service/internal/events"
)

func TestAlertService_RecordsNoticePerEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	alerts := NewAlertService(dispatcher, zap.NewNop())
	alerts.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventRepairCreated,
		TicketID: "a",
	}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventRepairDeleted,
		TicketID: "b",
	}))

	active := alerts.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Repair ticket saved.", active[0].Message)
	assert.Equal(t, "Repair ticket deleted.", active[1].Message)
}

func TestAlertService_NoticesExpire(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	alerts := NewAlertService(dispatcher, zap.NewNop())
	alerts.RegisterHandlers()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	alerts.clock = func() time.Time { return now }

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventRepairStatusChanged,
		TicketID: "a",
	}))
	require.Len(t, alerts.Active(), 1)

	// Just inside the window.
	alerts.clock = func() time.Time { return now.Add(alertTTL - time.Millisecond) }
	assert.Len(t, alerts.Active(), 1)

	// Past the window the notice is pruned.
	alerts.clock = func() time.Time { return now.Add(alertTTL + time.Millisecond) }
	assert.Empty(t, alerts.Active())
	assert.Empty(t, alerts.Active())
}
