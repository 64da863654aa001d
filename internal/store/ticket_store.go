package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/velotaller/repair-service/internal/domain"
	"github.com/velotaller/repair-service/internal/repository"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// DefaultRecentWindow bounds the "recent repairs" view.
const DefaultRecentWindow = time.Hour

// TicketStore mirrors the remote repairs collection in memory. The snapshot
// is replaced wholesale on every change notification and never mutated in
// place, so readers always observe a fully formed copy. All local writes go
// through the repository and come back via the subscription.
type TicketStore struct {
	repo   repository.TicketRepository
	logger *zap.Logger

	mu      sync.RWMutex
	tickets []domain.Ticket
	loading bool
	lastErr error
	cancel  repository.CancelFunc
}

// NewTicketStore builds a store in the loading state; nothing is visible
// until Subscribe delivers the first snapshot.
func NewTicketStore(repo repository.TicketRepository, logger *zap.Logger) *TicketStore {
	return &TicketStore{repo: repo, logger: logger, loading: true}
}

// Subscribe opens the live subscription. At most one subscription is held;
// a second call replaces the first. onError, when non-nil, is invoked after
// the store has recorded a transport failure so the caller can notify the
// user.
func (s *TicketStore) Subscribe(ctx context.Context, onError func(error)) error {
	s.Cancel()

	cancel, err := s.repo.Subscribe(ctx, s.applySnapshot, func(err error) {
		s.recordError(err)
		if onError != nil {
			onError(err)
		}
	})
	if err != nil {
		s.recordError(err)
		return apperrors.NewSubscriptionError(err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

// Cancel tears down the subscription. Idempotent. Required on teardown so no
// listener outlives its owner.
func (s *TicketStore) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *TicketStore) applySnapshot(tickets []domain.Ticket) {
	s.mu.Lock()
	s.tickets = tickets
	s.loading = false
	s.lastErr = nil
	s.mu.Unlock()
}

// recordError clears the loading flag and keeps the last known snapshot.
func (s *TicketStore) recordError(err error) {
	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Error("repair subscription failed", zap.Error(err))
}

// Snapshot returns a copy of the current ticket list.
func (s *TicketStore) Snapshot() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Get finds a ticket by ID in the current snapshot.
func (s *TicketStore) Get(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Ticket{}, false
}

// Loading reports whether the first snapshot or error is still pending.
func (s *TicketStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last subscription error; nil after a healthy snapshot.
func (s *TicketStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Recent returns tickets whose receipt instant falls within window of now.
// Pure over the current snapshot and the given clock; tickets with malformed
// scheduling fields never qualify.
func (s *TicketStore) Recent(now time.Time, window time.Duration) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Ticket
	for _, t := range s.tickets {
		received, ok := t.ReceivedAt()
		if !ok {
			continue
		}
		if now.Sub(received) <= window {
			out = append(out, t)
		}
	}
	return out
}
