package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"sophia/api/database"
	"sophia/api/models"
)

// ConversionStore keeps the append-only conversion event log in ClickHouse.
type ConversionStore struct {
	DB *database.ClickHouseClient
}

func NewConversionStore(chClient *database.ClickHouseClient) *ConversionStore {
	return &ConversionStore{DB: chClient}
}

func (s *ConversionStore) InsertEvents(ctx context.Context, events []models.ConversionEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO conversion_events (
			event_id, business_id, event_name, value, metadata, timestamp
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.BusinessID,
			event.EventName,
			event.Value,
			string(event.Metadata),
			event.Timestamp,
		)
		if err != nil {
			log.Error().Err(err).Str("event_id", event.EventID).Msg("Error appending event to batch")
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// ListEvents returns events for a business in [start, end], newest first.
func (s *ConversionStore) ListEvents(ctx context.Context, businessID string, start, end time.Time, limit uint64) ([]models.ConversionEvent, error) {
	if limit == 0 {
		limit = 100
	}

	query := `
		SELECT event_id, business_id, event_name, value, metadata, timestamp
		FROM conversion_events
		WHERE business_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, businessID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion events: %w", err)
	}
	defer rows.Close()

	var events []models.ConversionEvent
	for rows.Next() {
		var e models.ConversionEvent
		var metadata string
		if err := rows.Scan(&e.EventID, &e.BusinessID, &e.EventName, &e.Value, &metadata, &e.Timestamp); err != nil {
			log.Error().Err(err).Msg("Error scanning conversion event row")
			continue
		}
		if metadata != "" {
			e.Metadata = []byte(metadata)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying conversion events: %w", err)
	}
	return events, nil
}

// CountByName groups events by name over the window.
func (s *ConversionStore) CountByName(ctx context.Context, businessID string, start, end time.Time) (map[string]uint64, error) {
	query := `
		SELECT event_name, count() AS total
		FROM conversion_events
		WHERE business_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY event_name
		ORDER BY total DESC
	`
	rows, err := s.DB.Conn.Query(ctx, query, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var name string
		var total uint64
		if err := rows.Scan(&name, &total); err != nil {
			log.Error().Err(err).Msg("Error scanning conversion count row")
			continue
		}
		counts[name] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying conversion counts: %w", err)
	}
	return counts, nil
}
