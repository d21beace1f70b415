package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"isengard/internal/domain"
)

// StoredEvent is one appended record of the per-aggregate audit log.
type StoredEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

// MySQLEventStore appends serialized domain events in insertion order. It is
// write-mostly: All exists for replay and audit, not for rebuilding state.
type MySQLEventStore struct {
	db *sql.DB
}

func NewMySQLEventStore(db *sql.DB) *MySQLEventStore {
	return &MySQLEventStore{db: db}
}

func (s *MySQLEventStore) Store(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializing event %s: %w", event.EventName(), err)
	}

	query := `INSERT INTO StoredEvents (aggregateId, eventType, payload, createdAt) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, event.AggregateID(), event.EventName(), payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("storing event %s: %w", event.EventName(), err)
	}
	return nil
}

func (s *MySQLEventStore) All(ctx context.Context, aggregateID string) ([]StoredEvent, error) {
	query := `
		SELECT id, aggregateId, eventType, payload, createdAt
		FROM StoredEvents
		WHERE aggregateId = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("querying stored events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var ev StoredEvent
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning stored event row: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stored event rows: %w", err)
	}

	return events, nil
}
