package libraries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// ThumbnailStore keeps the rendered board images. Save returns the stored
// object path that is recorded on the board.
type ThumbnailStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

// ThumbnailName is the object name used for a board's image.
func ThumbnailName(boardUUID string) string {
	return fmt.Sprintf("boards/%s.png", boardUUID)
}

// GCSThumbnailStore writes thumbnails into a Cloud Storage bucket.
type GCSThumbnailStore struct {
	client *storage.Client
	bucket string
}

func NewGCSThumbnailStore(client *storage.Client, bucket string) *GCSThumbnailStore {
	return &GCSThumbnailStore{client: client, bucket: bucket}
}

func (s *GCSThumbnailStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, name), nil
}

func (s *GCSThumbnailStore) Delete(ctx context.Context, name string) error {
	err := s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// LocalThumbnailStore writes thumbnails below a directory on disk.
type LocalThumbnailStore struct {
	Dir string
}

func (s LocalThumbnailStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	path := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return path, nil
}

func (s LocalThumbnailStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
