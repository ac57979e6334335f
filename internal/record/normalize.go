package record

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize converts a raw observation into the canonical Record shape. It is
// total (never fails) and idempotent: normalizing the Fields map of an
// already-normalized record yields the same record.
func Normalize(raw RawObservation) Record {
	get := func(key string) string { return cleanValue(raw.Fields[key]) }

	rec := Record{
		Name:             CanonicalName(get(FieldName)),
		Age:              ParseAgeRange(get(FieldAge)),
		HeightInches:     parseMeasurement(get(FieldHeight)),
		WeightPounds:     parseMeasurement(get(FieldWeight)),
		SkinTone:         titleCase(get(FieldSkinTone)),
		Gender:           titleCase(get(FieldGender)),
		SubstanceHistory: get(FieldSubstanceHistory),
		Notes:            strings.TrimSpace(raw.Fields[FieldNotes]),

		Location:      strings.TrimSpace(raw.Location),
		Transcription: strings.TrimSpace(raw.Transcription),
		PhotoPath:     strings.TrimSpace(raw.PhotoPath),
		WorkerID:      strings.TrimSpace(raw.WorkerID),
		CapturedAt:    raw.CapturedAt,
	}
	return rec
}

// CanonicalName collapses internal whitespace and trims the name while
// preserving its original casing. Unknown markers map to empty.
func CanonicalName(name string) string {
	name = cleanValue(name)
	if name == "" {
		return ""
	}
	return strings.Join(strings.Fields(name), " ")
}

// FoldName lowercases a name and strips diacritics for comparison purposes,
// so "José García" and "jose garcia" compare equal.
func FoldName(name string) string {
	name = strings.ToLower(CanonicalName(name))
	if name == "" {
		return ""
	}
	folded, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		return name
	}
	return folded
}

// cleanValue trims a raw field value and maps unknown markers to empty.
func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "unknown", "n/a":
		return ""
	}
	return value
}

// parseMeasurement parses a positive integer measurement, tolerating
// surrounding whitespace and trailing unit text ("70 in", "180lbs").
// Anything unparseable or non-positive is unknown (0).
func parseMeasurement(value string) int {
	value = cleanValue(value)
	if value == "" {
		return 0
	}
	digits := value
	for i, r := range value {
		if r < '0' || r > '9' {
			digits = value[:i]
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func titleCase(value string) string {
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
