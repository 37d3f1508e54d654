package outbox

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/propagation"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

type Event struct {
	ID            int64     `db:"id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	Type          string    `db:"type"`
	Payload       []byte    `db:"payload"`
	Headers       Headers   `db:"headers"`
	Traceparent   string    `db:"traceparent"`
	CreatedAt     time.Time `db:"created_at"`
	Status        Status    `db:"status"`
	RelayID       *string   `db:"relay_id"`
	RetryCount    int       `db:"retry_count"`
	LastError     *string   `db:"last_error"`
}

// Headers is stored as a JSONB object.
type Headers map[string]string

func (h Headers) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

func (h *Headers) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*h = Headers{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("outbox: cannot scan %T into Headers", src)
	}
	return json.Unmarshal(raw, h)
}

// NewEvent encodes payload as JSON and captures the W3C traceparent of ctx, if any.
func NewEvent(ctx context.Context, aggregateType, aggregateID, eventType string, payload interface{}) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	return Event{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Type:          eventType,
		Payload:       body,
		Headers:       Headers{"content_type": "application/json"},
		Traceparent:   carrier.Get("traceparent"),
		CreatedAt:     time.Now(),
		Status:        StatusPending,
	}, nil
}
