package roster

import (
	"time"

	"beacon/internal/record"
	"beacon/internal/urgency"
)

// Individual is one person on the roster. BaseUrgencyScore is the stored
// result of the last score refresh; UrgencyOverride, when set, wins over it
// for display until cleared.
type Individual struct {
	ID               string
	Fields           record.Record
	PhotoPath        string
	PhotoHistory     []PhotoEntry
	BaseUrgencyScore int
	UrgencyOverride  *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastSeenAt       time.Time
}

// DisplayScore applies override precedence to the stored scores.
func (ind *Individual) DisplayScore() int {
	return urgency.DisplayScore(ind.BaseUrgencyScore, ind.UrgencyOverride)
}

// Band returns the presentation band of the display score.
func (ind *Individual) Band() urgency.Band {
	return urgency.BandFor(ind.DisplayScore())
}

// PhotoEntry is one attached photo, newest first in Individual.PhotoHistory.
type PhotoEntry struct {
	Path       string
	AttachedAt time.Time
}

// Interaction is one recorded encounter with an individual. FieldDeltas
// holds only the identity fields this encounter changed.
type Interaction struct {
	ID               string
	IndividualID     string
	WorkerID         string
	Location         string
	Transcription    string
	FieldDeltas      map[string]string
	DangerIndicators []string
	PhotoPath        string
	CreatedAt        time.Time
}

// ToEncounter projects the interaction into the minimal shape the urgency
// fold consumes.
func (it Interaction) ToEncounter() urgency.Encounter {
	return urgency.Encounter{
		OccurredAt:       it.CreatedAt,
		DangerIndicators: it.DangerIndicators,
		Notes:            it.Transcription,
	}
}
