package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

// MaxRetries is how many failed dispatches an event gets before it is parked as failed.
const MaxRetries = 5

// PGStore keeps events in the outbox table. Enqueue joins the caller's
// transaction so an event is stored only if the business change commits.
type PGStore struct {
	DB *sqlx.DB
}

func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Enqueue(ctx context.Context, e Event) error {
	query := `
        INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status, created_at)
        VALUES (:aggregate_type, :aggregate_id, :type, :payload, :headers, :traceparent, 'pending', :created_at)
    `
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := database.Conn(ctx, s.DB).NamedExecContext(ctx, query, e)
	return err
}

func (s *PGStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	events := []Event{}
	err = tx.SelectContext(ctx, &events, `
        SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent,
               created_at, status, relay_id, retry_count, last_error
        FROM outbox
        WHERE status = 'pending' OR (status = 'in_progress' AND lease_until < now())
        ORDER BY id
        LIMIT $1
        FOR UPDATE SKIP LOCKED
    `, batchSize)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	query, args, err := sqlx.In(`UPDATE outbox SET status = 'in_progress', relay_id = ?, lease_until = ? WHERE id IN (?)`,
		relayID, time.Now().Add(lease), ids)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *PGStore) MarkSent(ctx context.Context, ids []int64) error {
	query, args, err := sqlx.In(`UPDATE outbox SET status = 'sent', lease_until = NULL WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no rows updated")
	}
	return nil
}

// MarkFailed puts the event back to pending until it has used MaxRetries, or
// parks it immediately when the failure is permanent.
func (s *PGStore) MarkFailed(ctx context.Context, id int64, errMsg string, permanent bool) error {
	_, err := s.DB.ExecContext(ctx, `
        UPDATE outbox
        SET retry_count = retry_count + 1,
            last_error = $2,
            lease_until = NULL,
            status = CASE WHEN $3 OR retry_count + 1 >= $4 THEN 'failed' ELSE 'pending' END
        WHERE id = $1
    `, id, errMsg, permanent, MaxRetries)
	if err != nil {
		return fmt.Errorf("mark outbox event %d failed: %w", id, err)
	}
	return nil
}
