package record

import (
	"testing"
	"time"
)

func TestNormalizeBasic(t *testing.T) {
	raw := RawObservation{
		Fields: map[string]string{
			FieldName:     "  John   Doe ",
			FieldAge:      "45-50",
			FieldHeight:   "70 in",
			FieldWeight:   "180lbs",
			FieldSkinTone: "medium",
			FieldGender:   "MALE",
			FieldNotes:    " seen near the shelter ",
		},
		Location:   "5th and Main",
		WorkerID:   "w-12",
		CapturedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	rec := Normalize(raw)
	if rec.Name != "John Doe" {
		t.Fatalf("name not collapsed: %q", rec.Name)
	}
	if rec.Age != (AgeRange{45, 50}) {
		t.Fatalf("age not parsed: %v", rec.Age)
	}
	if rec.HeightInches != 70 || rec.WeightPounds != 180 {
		t.Fatalf("measurements not parsed: %d %d", rec.HeightInches, rec.WeightPounds)
	}
	if rec.SkinTone != "Medium" || rec.Gender != "Male" {
		t.Fatalf("categorical fields not canonicalized: %q %q", rec.SkinTone, rec.Gender)
	}
	if rec.Notes != "seen near the shelter" {
		t.Fatalf("notes not trimmed: %q", rec.Notes)
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	// Nil field map, junk values, explicit unknowns: none of these may panic
	// or produce anything but unknown sentinels.
	rec := Normalize(RawObservation{})
	if rec.Name != "" || rec.Age != AgeUnknown || rec.HeightInches != 0 {
		t.Fatalf("empty observation should be all-unknown: %+v", rec)
	}

	rec = Normalize(RawObservation{Fields: map[string]string{
		FieldAge:    "not an age",
		FieldHeight: "tall",
		FieldWeight: "unknown",
		FieldName:   "n/a",
	}})
	if rec.Name != "" || rec.Age != AgeUnknown || rec.HeightInches != 0 || rec.WeightPounds != 0 {
		t.Fatalf("junk values should normalize to unknown: %+v", rec)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := RawObservation{
		Fields: map[string]string{
			FieldName:     "  Jane  Smith ",
			FieldAge:      "30-35",
			FieldHeight:   "64",
			FieldWeight:   "130",
			FieldSkinTone: "light",
			FieldGender:   "female",
		},
	}
	once := Normalize(raw)
	twice := Normalize(RawObservation{Fields: once.Fields()})

	// Compare identity fields only; encounter context is not part of Fields().
	if once.Name != twice.Name || once.Age != twice.Age ||
		once.HeightInches != twice.HeightInches || once.WeightPounds != twice.WeightPounds ||
		once.SkinTone != twice.SkinTone || once.Gender != twice.Gender {
		t.Fatalf("normalization not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	rec := Record{
		Name:         "John Doe",
		Age:          AgeRange{45, 50},
		HeightInches: 70,
		WeightPounds: 180,
		SkinTone:     "Medium",
		Gender:       "Male",
		Notes:        "camp by the river",
	}
	back := FromFields(rec.Fields())
	if back != rec {
		t.Fatalf("field map round trip changed record:\nwant %+v\ngot  %+v", rec, back)
	}
}

func TestFoldName(t *testing.T) {
	if FoldName("José García") != "jose garcia" {
		t.Fatalf("diacritics not folded: %q", FoldName("José García"))
	}
	if FoldName("  JOHN  DOE ") != "john doe" {
		t.Fatalf("case/whitespace not folded: %q", FoldName("  JOHN  DOE "))
	}
	if FoldName("") != "" {
		t.Fatal("empty name should stay empty")
	}
}

func TestHasRequiredFields(t *testing.T) {
	rec := Record{Name: "John Doe", HeightInches: 70, WeightPounds: 180, SkinTone: "Medium"}
	if ok, missing := rec.HasRequiredFields(); !ok {
		t.Fatalf("expected complete record, missing %v", missing)
	}
	rec.SkinTone = ""
	rec.Name = ""
	ok, missing := rec.HasRequiredFields()
	if ok {
		t.Fatal("expected missing fields")
	}
	if len(missing) != 2 || missing[0] != FieldName || missing[1] != FieldSkinTone {
		t.Fatalf("unexpected missing list %v", missing)
	}
}
