package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/velotaller/repair-service/internal/events"
)

// alertTTL is how long a notice stays visible before auto-dismissing.
const alertTTL = 3 * time.Second

// Alert is a transient user-facing notice.
type Alert struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertService records transient notices emitted by repair lifecycle events.
// Notices expire shortly after creation, feeding the auto-dismissing banner.
type AlertService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      func() time.Time

	mu     sync.Mutex
	alerts []Alert
}

// NewAlertService constructs the service.
func NewAlertService(dispatcher events.Dispatcher, logger *zap.Logger) *AlertService {
	return &AlertService{dispatcher: dispatcher, logger: logger, clock: time.Now}
}

// RegisterHandlers subscribes the alert recorder to repair events.
func (s *AlertService) RegisterHandlers() {
	s.dispatcher.Subscribe(events.EventRepairCreated, s.handler("Repair ticket saved."))
	s.dispatcher.Subscribe(events.EventRepairUpdated, s.handler("Repair ticket updated."))
	s.dispatcher.Subscribe(events.EventRepairStatusChanged, s.handler("Repair status updated."))
	s.dispatcher.Subscribe(events.EventRepairDeleted, s.handler("Repair ticket deleted."))
}

func (s *AlertService) handler(message string) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		s.mu.Lock()
		s.alerts = append(s.alerts, Alert{Message: message, CreatedAt: s.clock()})
		s.mu.Unlock()
		s.logger.Info("alert recorded",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
		return nil
	}
}

// Active returns notices still within their display window and prunes the
// rest.
func (s *AlertService) Active() []Alert {
	cutoff := s.clock().Add(-alertTTL)
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.alerts[:0]
	for _, alert := range s.alerts {
		if alert.CreatedAt.After(cutoff) {
			kept = append(kept, alert)
		}
	}
	s.alerts = kept

	out := make([]Alert, len(kept))
	copy(out, kept)
	return out
}
