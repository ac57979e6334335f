package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"beacon/internal/match"
	"beacon/internal/record"
	"beacon/internal/urgency"
)

// GetIndividual fetches one individual with photo history, newest first.
func (s *Store) GetIndividual(ctx context.Context, id string) (*Individual, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+individualColumns+` FROM individuals WHERE id = ?`, id)
	ind, err := scanIndividual(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get individual: %w", err)
	}

	history, err := s.photoHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	ind.PhotoHistory = history
	return ind, nil
}

// Candidates returns every individual projected into the shape the matcher
// consumes. Filtering and scoring happen upstream.
func (s *Store) Candidates(ctx context.Context) ([]match.Candidate, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+individualColumns+` FROM individuals`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []match.Candidate
	for rows.Next() {
		ind, err := scanIndividual(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, match.Candidate{
			ID:       ind.ID,
			Fields:   ind.Fields,
			LastSeen: ind.LastSeenAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// LookupCandidates satisfies the candidate search boundary. The whole roster
// is returned; age filtering and fuzzy ranking happen in the match layer so
// that near-miss names are never excluded by a premature SQL filter.
func (s *Store) LookupCandidates(ctx context.Context, _ record.Record) ([]match.Candidate, error) {
	return s.Candidates(ctx)
}

// List returns the roster ordered by display score descending, most recently
// seen first within a score.
func (s *Store) List(ctx context.Context) ([]*Individual, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+individualColumns+` FROM individuals
         ORDER BY COALESCE(urgency_override, base_urgency_score) DESC, last_seen_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list individuals: %w", err)
	}
	defer rows.Close()

	var individuals []*Individual
	for rows.Next() {
		ind, err := scanIndividual(rows)
		if err != nil {
			return nil, fmt.Errorf("scan individual: %w", err)
		}
		individuals = append(individuals, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate individuals: %w", err)
	}
	return individuals, nil
}

// PersistCreate inserts a new individual from a normalized record, records
// the founding interaction, and seeds the base urgency score, all in one
// transaction.
func (s *Store) PersistCreate(ctx context.Context, rec record.Record, danger []string) (*Individual, error) {
	ctx = ensureContext(ctx)
	id := uuid.NewString()
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO individuals (
                id, name, fold_name, age_min, age_max, height_inches, weight_pounds,
                skin_tone, gender, substance_history, notes, photo_path,
                created_at, updated_at, last_seen_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			nullableString(rec.Name),
			nullableString(record.FoldName(rec.Name)),
			rec.Age.Min,
			rec.Age.Max,
			rec.HeightInches,
			rec.WeightPounds,
			nullableString(rec.SkinTone),
			nullableString(rec.Gender),
			nullableString(rec.SubstanceHistory),
			nullableString(rec.Notes),
			nullableString(rec.PhotoPath),
			timestamp,
			timestamp,
			timestamp,
		); err != nil {
			return fmt.Errorf("insert individual: %w", err)
		}

		deltas := make(map[string]string)
		for field, value := range rec.Fields() {
			if value != "" {
				deltas[field] = value
			}
		}
		if err := s.insertInteraction(ctx, tx, id, rec, deltas, danger, now); err != nil {
			return err
		}
		if rec.PhotoPath != "" {
			if err := s.insertPhoto(ctx, tx, id, rec.PhotoPath, now); err != nil {
				return err
			}
		}
		return s.refreshBaseScore(ctx, tx, id, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetIndividual(ctx, id)
}

// PersistMerge applies merged identity fields to an existing individual,
// appends the interaction, and refreshes the base urgency score, all in one
// transaction. A missing individual returns ErrNotFound and writes nothing.
func (s *Store) PersistMerge(ctx context.Context, id string, merged record.Record, danger []string) (*Individual, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+individualColumns+` FROM individuals WHERE id = ?`, id)
		existing, err := scanIndividual(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("load individual: %w", err)
		}

		photoPath := existing.PhotoPath
		if merged.PhotoPath != "" {
			photoPath = merged.PhotoPath
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE individuals SET
                name = ?, fold_name = ?, age_min = ?, age_max = ?,
                height_inches = ?, weight_pounds = ?, skin_tone = ?, gender = ?,
                substance_history = ?, notes = ?, photo_path = ?,
                updated_at = ?, last_seen_at = ?
             WHERE id = ?`,
			nullableString(merged.Name),
			nullableString(record.FoldName(merged.Name)),
			merged.Age.Min,
			merged.Age.Max,
			merged.HeightInches,
			merged.WeightPounds,
			nullableString(merged.SkinTone),
			nullableString(merged.Gender),
			nullableString(merged.SubstanceHistory),
			nullableString(merged.Notes),
			nullableString(photoPath),
			timestamp,
			timestamp,
			id,
		); err != nil {
			return fmt.Errorf("update individual: %w", err)
		}

		deltas := fieldDeltas(existing.Fields, merged)
		if err := s.insertInteraction(ctx, tx, id, merged, deltas, danger, now); err != nil {
			return err
		}
		if merged.PhotoPath != "" && merged.PhotoPath != existing.PhotoPath {
			if err := s.insertPhoto(ctx, tx, id, merged.PhotoPath, now); err != nil {
				return err
			}
		}
		return s.refreshBaseScore(ctx, tx, id, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetIndividual(ctx, id)
}

// SetUrgencyOverride pins the display score for an individual.
func (s *Store) SetUrgencyOverride(ctx context.Context, id string, value int) error {
	if err := urgency.ValidateOverride(value); err != nil {
		return err
	}
	return s.updateOverride(ctx, id, &value)
}

// ClearUrgencyOverride reverts the display score to the computed base.
func (s *Store) ClearUrgencyOverride(ctx context.Context, id string) error {
	return s.updateOverride(ctx, id, nil)
}

func (s *Store) updateOverride(ctx context.Context, id string, value *int) error {
	ctx = ensureContext(ctx)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE individuals SET urgency_override = ?, updated_at = ? WHERE id = ?`,
		nullableInt(value), timestamp, id)
	if err != nil {
		return fmt.Errorf("update override: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// AttachPhoto records a stored photo as the individual's current photo and
// appends it to the photo history.
func (s *Store) AttachPhoto(ctx context.Context, id, path string) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE individuals SET photo_path = ?, updated_at = ? WHERE id = ?`,
			path, now.Format(time.RFC3339Nano), id)
		if err != nil {
			return fmt.Errorf("update photo path: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return s.insertPhoto(ctx, tx, id, path, now)
	})
}

// RefreshUrgency recomputes and stores the base urgency score from the full
// interaction history, returning the new base.
func (s *Store) RefreshUrgency(ctx context.Context, id string) (int, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	var base int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.refreshBaseScore(ctx, tx, id, now); err != nil {
			return err
		}
		row := tx.QueryRowContext(ctx, `SELECT base_urgency_score FROM individuals WHERE id = ?`, id)
		if err := row.Scan(&base); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("read base score: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return base, nil
}

func (s *Store) withTx(ctx context.Context, op func(tx *sql.Tx) error) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if err := op(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

func (s *Store) refreshBaseScore(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE individual_id = ? ORDER BY created_at`, id)
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}
	defer rows.Close()

	var encounters []urgency.Encounter
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return fmt.Errorf("scan interaction: %w", err)
		}
		encounters = append(encounters, it.ToEncounter())
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate interactions: %w", err)
	}

	base := urgency.ComputeBaseScore(encounters, now, s.params)
	if _, err := tx.ExecContext(ctx,
		`UPDATE individuals SET base_urgency_score = ? WHERE id = ?`, base, id); err != nil {
		return fmt.Errorf("store base score: %w", err)
	}
	return nil
}

func (s *Store) photoHistory(ctx context.Context, id string) ([]PhotoEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT photo_path, attached_at FROM photo_history WHERE individual_id = ? ORDER BY attached_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("load photo history: %w", err)
	}
	defer rows.Close()

	var history []PhotoEntry
	for rows.Next() {
		var path string
		var attachedRaw string
		if err := rows.Scan(&path, &attachedRaw); err != nil {
			return nil, fmt.Errorf("scan photo entry: %w", err)
		}
		entry := PhotoEntry{Path: path}
		if attached, err := parseTimeString(attachedRaw); err == nil {
			entry.AttachedAt = attached
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo history: %w", err)
	}
	return history, nil
}

func (s *Store) insertPhoto(ctx context.Context, tx *sql.Tx, id, path string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO photo_history (individual_id, photo_path, attached_at) VALUES (?, ?, ?)`,
		id, path, now.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("insert photo history: %w", err)
	}
	return nil
}

// fieldDeltas lists the identity fields the merged record changed relative to
// what was stored.
func fieldDeltas(existing, merged record.Record) map[string]string {
	before := existing.Fields()
	after := merged.Fields()
	deltas := make(map[string]string)
	for _, field := range record.FieldOrder {
		if after[field] != before[field] {
			deltas[field] = after[field]
		}
	}
	return deltas
}
