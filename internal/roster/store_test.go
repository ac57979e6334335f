package roster_test

import (
	"context"
	"errors"
	"testing"

	"beacon/internal/record"
	"beacon/internal/roster"
	"beacon/internal/testsupport"
)

func TestPersistCreateSeedsIndividual(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	rec := testsupport.SampleRecord("Marcus Johnson")
	rec.PhotoPath = "/photos/marcus.jpg"

	ind, err := store.PersistCreate(ctx, rec, nil)
	if err != nil {
		t.Fatalf("PersistCreate failed: %v", err)
	}
	if ind.ID == "" {
		t.Fatal("expected individual ID to be assigned")
	}
	if ind.Fields.Name != "Marcus Johnson" {
		t.Fatalf("unexpected name: %q", ind.Fields.Name)
	}
	if ind.BaseUrgencyScore <= 0 {
		t.Fatalf("create should seed a nonzero base score, got %d", ind.BaseUrgencyScore)
	}
	if ind.PhotoPath != "/photos/marcus.jpg" {
		t.Fatalf("unexpected photo path: %q", ind.PhotoPath)
	}
	if len(ind.PhotoHistory) != 1 {
		t.Fatalf("expected one photo history entry, got %d", len(ind.PhotoHistory))
	}

	interactions, err := store.Interactions(ctx, ind.ID)
	if err != nil {
		t.Fatalf("Interactions failed: %v", err)
	}
	if len(interactions) != 1 {
		t.Fatalf("expected founding interaction, got %d", len(interactions))
	}
	if interactions[0].FieldDeltas[record.FieldName] != "Marcus Johnson" {
		t.Fatalf("founding deltas missing name: %#v", interactions[0].FieldDeltas)
	}
}

func TestGetIndividualNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.GetIndividual(context.Background(), "no-such-id")
	if !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistMergeUpdatesFieldsAndHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ind := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Marcus Johnson"))

	merged := ind.Fields
	merged.WeightPounds = 185
	merged.Notes = "carrying a knife"
	merged.WorkerID = "worker-2"
	merged.Transcription = "seen near the shelter, carrying a knife"

	updated, err := store.PersistMerge(ctx, ind.ID, merged, []string{"weapon"})
	if err != nil {
		t.Fatalf("PersistMerge failed: %v", err)
	}
	if updated.Fields.WeightPounds != 185 {
		t.Fatalf("merge did not apply weight: %d", updated.Fields.WeightPounds)
	}
	if updated.BaseUrgencyScore <= ind.BaseUrgencyScore {
		t.Fatalf("flagged encounter should raise base score: %d <= %d",
			updated.BaseUrgencyScore, ind.BaseUrgencyScore)
	}
	if !updated.LastSeenAt.After(ind.LastSeenAt) && !updated.LastSeenAt.Equal(ind.LastSeenAt) {
		t.Fatal("merge should advance last seen")
	}

	interactions, err := store.Interactions(ctx, ind.ID)
	if err != nil {
		t.Fatalf("Interactions failed: %v", err)
	}
	if len(interactions) != 2 {
		t.Fatalf("expected two interactions, got %d", len(interactions))
	}
	latest := interactions[0]
	if latest.FieldDeltas[record.FieldWeight] != "185" {
		t.Fatalf("delta should record changed weight: %#v", latest.FieldDeltas)
	}
	if _, ok := latest.FieldDeltas[record.FieldName]; ok {
		t.Fatal("unchanged name must not appear in deltas")
	}
	if len(latest.DangerIndicators) != 1 || latest.DangerIndicators[0] != "weapon" {
		t.Fatalf("danger indicators not persisted: %#v", latest.DangerIndicators)
	}
}

func TestPersistMergeMissingIndividualWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	_, err := store.PersistMerge(ctx, "gone", testsupport.SampleRecord("Ghost"), nil)
	if !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	individuals, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(individuals) != 0 {
		t.Fatalf("failed merge must not create rows, found %d", len(individuals))
	}
}

func TestUrgencyOverrideLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ind := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Marcus Johnson"))

	if err := store.SetUrgencyOverride(ctx, ind.ID, 80); err != nil {
		t.Fatalf("SetUrgencyOverride failed: %v", err)
	}
	withOverride, err := store.GetIndividual(ctx, ind.ID)
	if err != nil {
		t.Fatalf("GetIndividual failed: %v", err)
	}
	if withOverride.DisplayScore() != 80 {
		t.Fatalf("override should win display: %d", withOverride.DisplayScore())
	}

	if err := store.ClearUrgencyOverride(ctx, ind.ID); err != nil {
		t.Fatalf("ClearUrgencyOverride failed: %v", err)
	}
	cleared, err := store.GetIndividual(ctx, ind.ID)
	if err != nil {
		t.Fatalf("GetIndividual failed: %v", err)
	}
	if cleared.UrgencyOverride != nil {
		t.Fatal("override should be cleared")
	}
	if cleared.DisplayScore() != cleared.BaseUrgencyScore {
		t.Fatalf("cleared display should equal base: %d != %d",
			cleared.DisplayScore(), cleared.BaseUrgencyScore)
	}

	if err := store.SetUrgencyOverride(ctx, ind.ID, 101); err == nil {
		t.Fatal("out-of-range override must be rejected")
	}
	if err := store.SetUrgencyOverride(ctx, "gone", 50); !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByDisplayScore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	low := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Quiet Person"))
	high := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Flagged Person"))

	if err := store.SetUrgencyOverride(ctx, high.ID, 90); err != nil {
		t.Fatalf("SetUrgencyOverride failed: %v", err)
	}

	individuals, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(individuals) != 2 {
		t.Fatalf("expected 2 individuals, got %d", len(individuals))
	}
	if individuals[0].ID != high.ID {
		t.Fatalf("overridden individual should rank first, got %s", individuals[0].ID)
	}
	if individuals[1].ID != low.ID {
		t.Fatalf("expected low individual second, got %s", individuals[1].ID)
	}
}

func TestCandidatesProjection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ind := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Marcus Johnson"))

	candidates, err := store.Candidates(ctx)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	cand := candidates[0]
	if cand.ID != ind.ID {
		t.Fatalf("unexpected candidate id %s", cand.ID)
	}
	if cand.Fields.Name != "Marcus Johnson" || cand.Fields.HeightInches != 70 {
		t.Fatalf("candidate fields not projected: %#v", cand.Fields)
	}
	if cand.LastSeen.IsZero() {
		t.Fatal("candidate should carry last seen time")
	}
}

func TestAttachPhotoAppendsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ind := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Marcus Johnson"))

	if err := store.AttachPhoto(ctx, ind.ID, "/photos/first.jpg"); err != nil {
		t.Fatalf("AttachPhoto failed: %v", err)
	}
	if err := store.AttachPhoto(ctx, ind.ID, "/photos/second.jpg"); err != nil {
		t.Fatalf("AttachPhoto failed: %v", err)
	}

	fetched, err := store.GetIndividual(ctx, ind.ID)
	if err != nil {
		t.Fatalf("GetIndividual failed: %v", err)
	}
	if fetched.PhotoPath != "/photos/second.jpg" {
		t.Fatalf("current photo should be the latest, got %q", fetched.PhotoPath)
	}
	if len(fetched.PhotoHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(fetched.PhotoHistory))
	}
	if fetched.PhotoHistory[0].Path != "/photos/second.jpg" {
		t.Fatalf("history should be newest first: %#v", fetched.PhotoHistory)
	}

	if err := store.AttachPhoto(ctx, "gone", "/photos/x.jpg"); !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshUrgencyRecomputesBase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ind := testsupport.NewIndividual(t, store, testsupport.SampleRecord("Marcus Johnson"))

	base, err := store.RefreshUrgency(ctx, ind.ID)
	if err != nil {
		t.Fatalf("RefreshUrgency failed: %v", err)
	}
	if base != ind.BaseUrgencyScore {
		t.Fatalf("fresh recompute should match stored base: %d != %d", base, ind.BaseUrgencyScore)
	}

	if _, err := store.RefreshUrgency(ctx, "gone"); !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
