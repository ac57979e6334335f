package record

import (
	"strconv"
	"time"
)

// Canonical field names shared by normalization, matching, merge
// reconciliation, and persistence.
const (
	FieldName             = "name"
	FieldAge              = "age"
	FieldHeight           = "height"
	FieldWeight           = "weight"
	FieldSkinTone         = "skin_tone"
	FieldGender           = "gender"
	FieldSubstanceHistory = "substance_history"
	FieldNotes            = "notes"
)

// FieldOrder is the canonical presentation order for comparison views.
var FieldOrder = []string{
	FieldName,
	FieldAge,
	FieldHeight,
	FieldWeight,
	FieldSkinTone,
	FieldGender,
	FieldSubstanceHistory,
	FieldNotes,
}

// RawObservation is the loosely shaped capture payload produced by voice or
// manual entry before normalization. Field keys follow the Field* constants;
// absent keys, empty strings, and the literal "unknown" all mean not observed.
type RawObservation struct {
	Fields        map[string]string
	Location      string
	Transcription string
	PhotoPath     string
	WorkerID      string
	CapturedAt    time.Time
}

// Record is the fixed-shape normalized observation. Unknown scalars are the
// zero value ("" for strings, 0 for height/weight); the age sentinel is
// AgeUnknown. Records compare and merge through their Fields map.
type Record struct {
	Name             string   `json:"name"`
	Age              AgeRange `json:"age"`
	HeightInches     int      `json:"heightInches"`
	WeightPounds     int      `json:"weightPounds"`
	SkinTone         string   `json:"skinTone"`
	Gender           string   `json:"gender"`
	SubstanceHistory string   `json:"substanceHistory"`
	Notes            string   `json:"notes"`

	Location      string    `json:"location,omitempty"`
	Transcription string    `json:"transcription,omitempty"`
	PhotoPath     string    `json:"photoPath,omitempty"`
	WorkerID      string    `json:"workerId,omitempty"`
	CapturedAt    time.Time `json:"capturedAt,omitempty"`
}

// Fields returns the identity field map used for matching and merging.
// Unknown fields map to the empty string. Encounter context (location,
// transcription, photo) is deliberately excluded; it belongs to the
// interaction, not the person.
func (r Record) Fields() map[string]string {
	fields := map[string]string{
		FieldName:             r.Name,
		FieldAge:              "",
		FieldHeight:           "",
		FieldWeight:           "",
		FieldSkinTone:         r.SkinTone,
		FieldGender:           r.Gender,
		FieldSubstanceHistory: r.SubstanceHistory,
		FieldNotes:            r.Notes,
	}
	if r.Age.Known() {
		fields[FieldAge] = r.Age.String()
	}
	if r.HeightInches > 0 {
		fields[FieldHeight] = strconv.Itoa(r.HeightInches)
	}
	if r.WeightPounds > 0 {
		fields[FieldWeight] = strconv.Itoa(r.WeightPounds)
	}
	return fields
}

// FromFields rebuilds a Record's identity fields from a field map, parsing the
// textual age/height/weight representations back into their typed forms.
// Unparseable values become unknown, mirroring Normalize.
func FromFields(fields map[string]string) Record {
	rec := Record{
		Name:             fields[FieldName],
		Age:              ParseAgeRange(fields[FieldAge]),
		SkinTone:         fields[FieldSkinTone],
		Gender:           fields[FieldGender],
		SubstanceHistory: fields[FieldSubstanceHistory],
		Notes:            fields[FieldNotes],
	}
	rec.HeightInches = parseMeasurement(fields[FieldHeight])
	rec.WeightPounds = parseMeasurement(fields[FieldWeight])
	return rec
}

// HasRequiredFields reports whether the record carries the fields a save
// requires, returning the missing field names.
func (r Record) HasRequiredFields() (bool, []string) {
	var missing []string
	if r.Name == "" {
		missing = append(missing, FieldName)
	}
	if r.HeightInches <= 0 {
		missing = append(missing, FieldHeight)
	}
	if r.WeightPounds <= 0 {
		missing = append(missing, FieldWeight)
	}
	if r.SkinTone == "" {
		missing = append(missing, FieldSkinTone)
	}
	return len(missing) == 0, missing
}
