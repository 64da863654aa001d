package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velotaller/repair-service/internal/domain"
)

// SnapshotFunc receives the full collection after every change notification.
type SnapshotFunc func(tickets []domain.Ticket)

// ErrorFunc receives subscription transport failures.
type ErrorFunc func(err error)

// CancelFunc tears down a live subscription. Safe to call more than once.
type CancelFunc func()

// TicketRepository encapsulates repair ticket persistence plus the push-based
// change feed. Writes are last-write-wins; local state learns about them only
// through the subscription round trip, never directly.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (string, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Ticket, error)
	Subscribe(ctx context.Context, onData SnapshotFunc, onError ErrorFunc) (CancelFunc, error)
}

// notifyChannel carries change pings emitted by the repairs table trigger.
const notifyChannel = "repairs_changed"

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres-backed repository. Tickets
// are stored as one JSONB document per row in the repairs table.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (string, error) {
	doc, err := marshalDoc(ticket)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	const query = `INSERT INTO repairs (id, doc) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (r *postgresTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	doc, err := marshalDoc(ticket)
	if err != nil {
		return err
	}
	const query = `UPDATE repairs SET doc=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, doc, ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus rewrites only orderManagement.status inside the document, so
// concurrent edits to other fields are not clobbered by the one-tap cycle.
func (r *postgresTicketRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	const query = `
        UPDATE repairs
        SET doc = jsonb_set(doc, '{orderManagement,status}', to_jsonb($1::text)), updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postgresTicketRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM repairs WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postgresTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT id, doc FROM repairs ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var ticket domain.Ticket
		if err := json.Unmarshal(doc, &ticket); err != nil {
			return nil, err
		}
		ticket.ID = id
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// Subscribe delivers the current collection immediately and again after every
// change ping on a dedicated LISTEN connection. onData and onError are called
// from a single goroutine; a transport failure ends the subscription.
func (r *postgresTicketRepository) Subscribe(ctx context.Context, onData SnapshotFunc, onError ErrorFunc) (CancelFunc, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, err
	}

	tickets, err := r.List(ctx)
	if err != nil {
		conn.Release()
		return nil, err
	}
	onData(tickets)

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer conn.Release()
		for {
			if _, err := conn.Conn().WaitForNotification(subCtx); err != nil {
				if subCtx.Err() != nil {
					return
				}
				onError(err)
				return
			}
			tickets, err := r.List(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				onError(err)
				return
			}
			onData(tickets)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

// marshalDoc serializes a ticket without its ID; the row key is the identity.
func marshalDoc(ticket *domain.Ticket) ([]byte, error) {
	doc := *ticket
	doc.ID = ""
	return json.Marshal(&doc)
}
