package api_test

import (
	"testing"
	"time"

	"beacon/internal/api"
	"beacon/internal/record"
	"beacon/internal/roster"
	"beacon/internal/services"
)

func TestFromIndividualProjectsScores(t *testing.T) {
	override := 80
	ind := &roster.Individual{
		ID: "ind-1",
		Fields: record.Record{
			Name:         "Marcus Johnson",
			Age:          record.AgeRange{Min: 45, Max: 50},
			HeightInches: 70,
		},
		BaseUrgencyScore: 20,
		UrgencyOverride:  &override,
		LastSeenAt:       time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}

	dto := api.FromIndividual(ind)
	if dto.DisplayScore != 80 {
		t.Fatalf("override should drive display score, got %d", dto.DisplayScore)
	}
	if dto.UrgencyBand != "critical" {
		t.Fatalf("band should follow display score, got %q", dto.UrgencyBand)
	}
	if dto.Age != "45-50" {
		t.Fatalf("unexpected age rendering %q", dto.Age)
	}
	if dto.LastSeenAt == "" {
		t.Fatal("last seen should be formatted")
	}

	ind.UrgencyOverride = nil
	dto = api.FromIndividual(ind)
	if dto.DisplayScore != 20 || dto.UrgencyBand != "low" {
		t.Fatalf("cleared override should revert to base: %d %q", dto.DisplayScore, dto.UrgencyBand)
	}
}

func TestFromIndividualUnknownAge(t *testing.T) {
	ind := &roster.Individual{ID: "ind-1", Fields: record.Record{Name: "X", Age: record.AgeUnknown}}
	if got := api.FromIndividual(ind).Age; got != "unknown" {
		t.Fatalf("unknown age should render as unknown, got %q", got)
	}
}

func TestFromErrorCarriesTaxonomy(t *testing.T) {
	err := services.Wrap(services.ErrStaleCandidate, "resolution", "confirm merge", "candidate vanished", nil)
	w := api.FromError(err)
	if w.Code != "STALE_CANDIDATE" {
		t.Fatalf("unexpected code %q", w.Code)
	}
	if w.Retryable {
		t.Fatal("stale candidate is not automatically retryable")
	}
	if w.UserMessage == "" {
		t.Fatal("user message must be populated")
	}
}
