package services_test

import (
	"errors"
	"strings"
	"testing"

	"beacon/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrPersistence, "roster", "persist merge", "Write failed", base)
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped cause to survive")
	}
	if !strings.Contains(err.Error(), "roster: persist merge: Write failed") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		marker error
		want   services.Code
	}{
		{"validation", services.ErrValidation, services.CodeValidation},
		{"stale", services.ErrStaleCandidate, services.CodeStaleCandidate},
		{"upload", services.ErrUpload, services.CodeUploadFailure},
		{"persistence", services.ErrPersistence, services.CodePersistenceFailure},
		{"lookup", services.ErrLookup, services.CodeLookupFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := services.Wrap(tc.marker, "engine", "op", "msg", nil)
			if got := services.Classify(err); got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
	if got := services.Classify(errors.New("plain")); got != services.CodeInternal {
		t.Fatalf("unmarked error should classify internal, got %s", got)
	}
}

func TestDescribeRetryable(t *testing.T) {
	err := services.Wrap(services.ErrUpload, "photos", "upload", "attempt cap reached", nil)
	desc := services.Describe(err)
	if desc.Code != services.CodeUploadFailure {
		t.Fatalf("unexpected code %s", desc.Code)
	}
	if !desc.Retryable {
		t.Fatal("upload failures should be retryable")
	}

	desc = services.Describe(services.Wrap(services.ErrValidation, "record", "normalize", "name missing", nil))
	if desc.Retryable {
		t.Fatal("validation failures must not be retryable")
	}
	if desc.UserMessage == "" {
		t.Fatal("expected a user message")
	}
}
