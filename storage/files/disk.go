package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
)

const diskURLPrefix = "/media/"

// DiskStorage stores uploaded files on the local filesystem. Used in
// development; production deployments use B2.
type DiskStorage struct {
	dir string
}

var _ core.FileStorage = (*DiskStorage)(nil)

func NewDiskStorage(conf *core.Config) (*DiskStorage, error) {
	if err := os.MkdirAll(conf.Storage.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media dir")
	}
	return &DiskStorage{dir: conf.Storage.Dir}, nil
}

func (s *DiskStorage) Store(_ context.Context, key string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "creating media subdir")
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating media file")
	}
	defer func() { _ = f.Close() }()
	if _, err = io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}
	return diskURLPrefix + key, nil
}

func (s *DiskStorage) Retrieve(_ context.Context, url string) (io.ReadCloser, error) {
	key, err := s.key(url)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(key)))
	return f, errors.Wrap(err, "opening media file")
}

func (s *DiskStorage) Delete(_ context.Context, url string) error {
	key, err := s.key(url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing media file")
	}
	return nil
}

func (s *DiskStorage) key(url string) (string, error) {
	if !strings.HasPrefix(url, diskURLPrefix) {
		return "", errors.Errorf("foreign file url %q", url)
	}
	return strings.TrimPrefix(url, diskURLPrefix), nil
}
