package testsupport

import (
	"context"
	"testing"
	"time"

	"beacon/internal/config"
	"beacon/internal/record"
	"beacon/internal/roster"
)

// MustOpenStore opens a roster.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *roster.Store {
	t.Helper()

	store, err := roster.Open(cfg)
	if err != nil {
		t.Fatalf("roster.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewIndividual creates an individual for tests using the provided store.
func NewIndividual(t testing.TB, store *roster.Store, rec record.Record) *roster.Individual {
	t.Helper()

	ind, err := store.PersistCreate(context.Background(), rec, nil)
	if err != nil {
		t.Fatalf("store.PersistCreate: %v", err)
	}
	return ind
}

// SampleRecord returns a normalized record with all required fields set.
// The name parameterizes identity so tests can seed distinct individuals.
func SampleRecord(name string) record.Record {
	return record.Record{
		Name:         name,
		Age:          record.AgeRange{Min: 45, Max: 50},
		HeightInches: 70,
		WeightPounds: 180,
		SkinTone:     "medium",
		Gender:       "male",
		WorkerID:     "worker-1",
		Location:     "5th and main",
		CapturedAt:   time.Now().UTC(),
	}
}
