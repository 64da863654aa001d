package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/velotaller/repair-service/internal/domain"
	"github.com/velotaller/repair-service/internal/events"
	"github.com/velotaller/repair-service/internal/repository"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// RepairService coordinates the list-side ticket actions that bypass the
// form: the one-tap status advance and deletion.
type RepairService struct {
	repo       repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewRepairService constructs the service.
func NewRepairService(repo repository.TicketRepository, dispatcher events.Dispatcher) *RepairService {
	return &RepairService{repo: repo, dispatcher: dispatcher}
}

// AdvanceStatus moves the ticket one step around the status cycle
// (Pending -> InProgress -> Completed -> Pending) with a partial update of
// the status field only. The new status becomes visible locally once the
// change notification round-trips.
func (s *RepairService) AdvanceStatus(ctx context.Context, ticket domain.Ticket) (domain.Status, error) {
	next := domain.NextStatus(ticket.OrderManagement.Status)
	if err := s.repo.UpdateStatus(ctx, ticket.ID, next); err != nil {
		return "", apperrors.NewPersistenceError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventRepairStatusChanged,
		TicketID: ticket.ID,
		Payload: events.RepairStatusChangedPayload{
			OldStatus: ticket.OrderManagement.Status,
			NewStatus: next,
		},
	})
	return next, nil
}

// Delete removes the ticket from the collection.
func (s *RepairService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventRepairDeleted,
		TicketID: id,
	})
	return nil
}

func (s *RepairService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
