package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
)

// B2Storage stores uploaded files in a Backblaze B2 bucket.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
}

var _ core.FileStorage = (*B2Storage)(nil)

func NewB2Storage(ctx context.Context, conf *core.Config) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, conf.Storage.B2KeyID, conf.Storage.B2AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, conf.Storage.B2Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "getting b2 bucket")
	}
	return &B2Storage{client: client, bucket: bucket}, nil
}

func (s *B2Storage) Store(ctx context.Context, key string, r io.Reader) (string, error) {
	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing b2 object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing b2 writer")
	}
	return fmt.Sprintf("%s/file/%s/%s", s.bucket.BaseURL(), s.bucket.Name(), key), nil
}

func (s *B2Storage) Retrieve(ctx context.Context, url string) (io.ReadCloser, error) {
	key, err := s.key(url)
	if err != nil {
		return nil, err
	}
	return s.bucket.Object(key).NewReader(ctx), nil
}

func (s *B2Storage) Delete(ctx context.Context, url string) error {
	key, err := s.key(url)
	if err != nil {
		return err
	}
	if err := s.bucket.Object(key).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return errors.Wrap(err, "deleting b2 object")
	}
	return nil
}

// key extracts the object key from a URL previously returned by Store.
func (s *B2Storage) key(url string) (string, error) {
	prefix := fmt.Sprintf("%s/file/%s/", s.bucket.BaseURL(), s.bucket.Name())
	if !strings.HasPrefix(url, prefix) {
		return "", errors.Errorf("foreign file url %q", url)
	}
	return strings.TrimPrefix(url, prefix), nil
}
