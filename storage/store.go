package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amelikova/stage-portfolio/config"
)

// ImageStore persists uploaded images and returns the URL they are served from.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// LocalStore writes images to a directory served back under PublicPrefix.
type LocalStore struct {
	Dir          string
	PublicPrefix string
}

func NewLocalStore(dir, publicPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, PublicPrefix: strings.TrimSuffix(publicPrefix, "/")}
}

func (s *LocalStore) Save(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.PublicPrefix + "/" + name, nil
}

// New picks the image store named by IMAGE_STORE ("local" or "s3").
func New(ctx context.Context, c map[string]string) (ImageStore, error) {
	switch kind := config.GetString(c, "IMAGE_STORE", "local"); kind {
	case "local":
		return NewLocalStore(
			config.GetString(c, "UPLOAD_DIR", "/tmp/uploads"),
			config.GetString(c, "UPLOAD_PUBLIC_PREFIX", "/uploads"),
		), nil
	case "s3":
		store, err := NewS3Store(ctx, c)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", kind)
	}
}
