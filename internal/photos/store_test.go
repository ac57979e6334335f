package photos_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"beacon/internal/photos"
	"beacon/internal/testsupport"
)

func TestUploadPhotoCopiesIntoIndividualDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := photos.NewStore(cfg)

	capture := filepath.Join(testsupport.BaseDir(cfg), "capture.jpg")
	testsupport.WriteFile(t, capture, 64*1024)

	url, err := store.UploadPhoto(context.Background(), capture, "ind-1")
	if err != nil {
		t.Fatalf("UploadPhoto failed: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Fatalf("expected file URL, got %q", url)
	}
	stored := strings.TrimPrefix(url, "file://")
	if filepath.Dir(stored) != filepath.Join(cfg.Paths.PhotoDir, "ind-1") {
		t.Fatalf("photo stored outside individual dir: %q", stored)
	}
	if filepath.Ext(stored) != ".jpg" {
		t.Fatalf("extension should be preserved, got %q", stored)
	}
	info, err := os.Stat(stored)
	if err != nil {
		t.Fatalf("stat stored photo: %v", err)
	}
	if info.Size() != 64*1024 {
		t.Fatalf("stored photo truncated: %d bytes", info.Size())
	}
}

func TestUploadPhotoMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := photos.NewStore(cfg)

	if _, err := store.UploadPhoto(context.Background(), "/no/such/capture.jpg", "ind-1"); err == nil {
		t.Fatal("expected error for missing capture")
	}
}

func TestUploadPhotoRequiresIndividual(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := photos.NewStore(cfg)

	if _, err := store.UploadPhoto(context.Background(), "/tmp/x.jpg", ""); err == nil {
		t.Fatal("expected error for empty individual id")
	}
}
