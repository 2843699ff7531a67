package disk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"creatorhub/contexts/community-experience/media-service/application"
	"creatorhub/contexts/community-experience/media-service/ports"
)

// Store writes uploads under a directory served at /uploads/.
type Store struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

var _ ports.ObjectStore = (*Store)(nil)

func NewStore(dir string, publicBaseURL string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  application.ResolveLogger(logger),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Put(_ context.Context, key string, _ string, body io.Reader) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp upload: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("publish upload: %w", err)
	}
	s.logger.Debug("upload written to disk",
		"event", "media_disk_write",
		"module", "community-experience/media-service",
		"layer", "adapter",
		"key", key,
	)
	return s.baseURL + "/uploads/" + key, nil
}
