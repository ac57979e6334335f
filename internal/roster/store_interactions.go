package roster

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"beacon/internal/record"
)

// Interactions returns the encounter history for an individual, newest first.
func (s *Store) Interactions(ctx context.Context, individualID string) ([]*Interaction, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE individual_id = ? ORDER BY created_at DESC`,
		individualID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var interactions []*Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return interactions, nil
}

func (s *Store) insertInteraction(ctx context.Context, tx *sql.Tx, individualID string, rec record.Record, deltas map[string]string, danger []string, now time.Time) error {
	var deltasJSON, dangerJSON any
	if len(deltas) > 0 {
		deltasJSON = marshalJSON(deltas)
	}
	if len(danger) > 0 {
		dangerJSON = marshalJSON(danger)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO interactions (
            id, individual_id, worker_id, location, transcription,
            field_deltas_json, danger_indicators_json, photo_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		individualID,
		nullableString(rec.WorkerID),
		nullableString(rec.Location),
		nullableString(rec.Transcription),
		deltasJSON,
		dangerJSON,
		nullableString(rec.PhotoPath),
		now.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}
