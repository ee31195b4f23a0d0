package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalDir stores audio under a local directory, the default for single-node
// deployments.
type LocalDir struct {
	dir string
}

func NewLocalDir(dir string) (*LocalDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalDir{dir: dir}, nil
}

func (l *LocalDir) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	path := filepath.Join(l.dir, filepath.Base(objectName))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
