package match

import (
	"testing"
	"time"

	"beacon/internal/record"
)

func fullRecord() record.Record {
	return record.Record{
		Name:         "John Doe",
		Age:          record.AgeRange{Min: 45, Max: 50},
		HeightInches: 70,
		WeightPounds: 180,
		SkinTone:     "Medium",
		Gender:       "Male",
	}
}

func candidate(id string, fields record.Record, lastSeen time.Time) Candidate {
	return Candidate{ID: id, Fields: fields, LastSeen: lastSeen}
}

func TestScoreIdenticalRecordIsFullConfidence(t *testing.T) {
	rec := fullRecord()
	matches := Score(rec, []Candidate{candidate("a", fullRecord(), time.Now())}, DefaultPolicy())
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	if matches[0].Confidence != 100 {
		t.Fatalf("identical records should score 100, got %v", matches[0].Confidence)
	}
	if len(matches[0].MatchedFields) != 6 {
		t.Fatalf("expected all six fields matched, got %v", matches[0].MatchedFields)
	}
}

func TestScoreUnknownFieldsNeitherHelpNorHurt(t *testing.T) {
	// Name, age, and height agree; weight, skin tone, and gender are unknown
	// on the new record. Confidence must still be 100 of the considered mass.
	rec := record.Record{
		Name:         "John Doe",
		Age:          record.AgeRange{Min: 45, Max: 50},
		HeightInches: 70,
		SkinTone:     "Medium",
	}
	matches := Score(rec, []Candidate{candidate("a", fullRecord(), time.Now())}, DefaultPolicy())
	if matches[0].Confidence != 100 {
		t.Fatalf("unknown fields must not dilute confidence, got %v", matches[0].Confidence)
	}
}

func TestScoreUnknownAgeContributesNothing(t *testing.T) {
	rec := fullRecord()
	rec.Age = record.AgeUnknown
	cand := fullRecord()

	withAge := Score(fullRecord(), []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())
	withoutAge := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())
	for _, m := range withoutAge[0].MatchedFields {
		if m == record.FieldAge {
			t.Fatal("unknown age must not appear in matched fields")
		}
	}
	// Everything else matches, so both should be full confidence.
	if withAge[0].Confidence != 100 || withoutAge[0].Confidence != 100 {
		t.Fatalf("expected 100/100, got %v/%v", withAge[0].Confidence, withoutAge[0].Confidence)
	}
}

func TestScoreDisagreementHurts(t *testing.T) {
	rec := fullRecord()
	cand := fullRecord()
	cand.Name = "Completely Different"
	matches := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())
	if matches[0].Confidence >= 60 {
		t.Fatalf("name disagreement should drop confidence below review threshold, got %v", matches[0].Confidence)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// Adding one more agreeing field never decreases confidence.
	cand := fullRecord()
	rec := record.Record{Name: "John Doe"}

	prev := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())[0].Confidence

	additions := []func(*record.Record){
		func(r *record.Record) { r.Age = record.AgeRange{Min: 45, Max: 50} },
		func(r *record.Record) { r.HeightInches = 70 },
		func(r *record.Record) { r.WeightPounds = 180 },
		func(r *record.Record) { r.SkinTone = "Medium" },
		func(r *record.Record) { r.Gender = "Male" },
	}
	for i, add := range additions {
		add(&rec)
		got := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())[0].Confidence
		if got < prev {
			t.Fatalf("confidence decreased after agreeing field %d: %v -> %v", i, prev, got)
		}
		prev = got
	}
}

func TestScoreNameFolding(t *testing.T) {
	rec := record.Record{Name: "jose garcia"}
	cand := record.Record{Name: "José García"}
	matches := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())
	if matches[0].Confidence != 100 {
		t.Fatalf("folded names should match exactly, got %v", matches[0].Confidence)
	}
}

func TestScoreNearNameGetsPartialCredit(t *testing.T) {
	rec := record.Record{Name: "John Doe"}
	cand := record.Record{Name: "Jon Doe"}
	matches := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())
	got := matches[0].Confidence
	if got <= 0 || got >= 100 {
		t.Fatalf("near-match name should earn partial credit, got %v", got)
	}
}

func TestScoreToleranceBands(t *testing.T) {
	base := record.Record{Name: "John Doe", HeightInches: 70}
	policy := DefaultPolicy()

	within := record.Record{Name: "John Doe", HeightInches: 72}
	near := record.Record{Name: "John Doe", HeightInches: 74}
	far := record.Record{Name: "John Doe", HeightInches: 80}

	cWithin := Score(base, []Candidate{candidate("a", within, time.Now())}, policy)[0].Confidence
	cNear := Score(base, []Candidate{candidate("a", near, time.Now())}, policy)[0].Confidence
	cFar := Score(base, []Candidate{candidate("a", far, time.Now())}, policy)[0].Confidence

	if !(cWithin > cNear && cNear > cFar) {
		t.Fatalf("expected banded falloff, got %v > %v > %v", cWithin, cNear, cFar)
	}
	if cWithin != 100 {
		t.Fatalf("within tolerance should be full credit, got %v", cWithin)
	}
}

func TestScoreTieBreaksOnRecency(t *testing.T) {
	rec := fullRecord()
	older := candidate("older", fullRecord(), time.Now().Add(-48*time.Hour))
	newer := candidate("newer", fullRecord(), time.Now())

	matches := Score(rec, []Candidate{older, newer}, DefaultPolicy())
	if matches[0].CandidateID != "newer" {
		t.Fatalf("tie should rank most recent first, got %s", matches[0].CandidateID)
	}
}

func TestScoreNoComparableFields(t *testing.T) {
	rec := record.Record{Name: "John Doe"}
	cand := record.Record{SkinTone: "Medium"}
	matches := Score(rec, []Candidate{candidate("a", cand, time.Now())}, DefaultPolicy())
	if matches[0].Confidence != 0 {
		t.Fatalf("no shared known fields should score 0, got %v", matches[0].Confidence)
	}
}
