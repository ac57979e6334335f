package roster

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"beacon/internal/record"
)

const individualColumns = "id, name, age_min, age_max, height_inches, weight_pounds, skin_tone, gender, substance_history, notes, photo_path, base_urgency_score, urgency_override, created_at, updated_at, last_seen_at"

func scanIndividual(scanner interface{ Scan(dest ...any) error }) (*Individual, error) {
	var (
		id               string
		name             sql.NullString
		ageMin           int
		ageMax           int
		heightInches     int
		weightPounds     int
		skinTone         sql.NullString
		gender           sql.NullString
		substanceHistory sql.NullString
		notes            sql.NullString
		photoPath        sql.NullString
		baseScore        int
		override         sql.NullInt64
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		lastSeenRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&ageMin,
		&ageMax,
		&heightInches,
		&weightPounds,
		&skinTone,
		&gender,
		&substanceHistory,
		&notes,
		&photoPath,
		&baseScore,
		&override,
		&createdRaw,
		&updatedRaw,
		&lastSeenRaw,
	); err != nil {
		return nil, err
	}

	ind := &Individual{
		ID: id,
		Fields: record.Record{
			Name:             name.String,
			Age:              record.AgeRange{Min: ageMin, Max: ageMax},
			HeightInches:     heightInches,
			WeightPounds:     weightPounds,
			SkinTone:         skinTone.String,
			Gender:           gender.String,
			SubstanceHistory: substanceHistory.String,
			Notes:            notes.String,
		},
		PhotoPath:        photoPath.String,
		BaseUrgencyScore: baseScore,
	}
	if override.Valid {
		v := int(override.Int64)
		ind.UrgencyOverride = &v
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		ind.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		ind.UpdatedAt = updated
	}
	if lastSeen, err := parseTimeString(lastSeenRaw.String); err == nil {
		ind.LastSeenAt = lastSeen
	}
	return ind, nil
}

const interactionColumns = "id, individual_id, worker_id, location, transcription, field_deltas_json, danger_indicators_json, photo_path, created_at"

func scanInteraction(scanner interface{ Scan(dest ...any) error }) (*Interaction, error) {
	var (
		id            string
		individualID  string
		workerID      sql.NullString
		location      sql.NullString
		transcription sql.NullString
		deltasJSON    sql.NullString
		dangerJSON    sql.NullString
		photoPath     sql.NullString
		createdRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&individualID,
		&workerID,
		&location,
		&transcription,
		&deltasJSON,
		&dangerJSON,
		&photoPath,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	it := &Interaction{
		ID:            id,
		IndividualID:  individualID,
		WorkerID:      workerID.String,
		Location:      location.String,
		Transcription: transcription.String,
		PhotoPath:     photoPath.String,
	}
	if deltasJSON.Valid && deltasJSON.String != "" {
		_ = json.Unmarshal([]byte(deltasJSON.String), &it.FieldDeltas)
	}
	if dangerJSON.Valid && dangerJSON.String != "" {
		_ = json.Unmarshal([]byte(dangerJSON.String), &it.DangerIndicators)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		it.CreatedAt = created
	}
	return it, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func marshalJSON(value any) any {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return string(data)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
