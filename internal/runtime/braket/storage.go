// SPDX-License-Identifier: MIT

package braket

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/qbraid/qbraid-go/internal/config"
)

// objectStore fetches result payloads from S3-compatible storage.
type objectStore interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// minioStore reads Braket result objects with the MinIO S3 client.
type minioStore struct {
	client *minio.Client
}

func newMinioStore(cfg config.Config) (*minioStore, error) {
	endpoint := cfg.S3Endpoint
	secure := true
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		Secure: secure,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &minioStore{client: client}, nil
}

func (s *minioStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close() //nolint:errcheck
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read s3 object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

var storeInitMu sync.Mutex

// resultStore returns the provider's object store, creating the MinIO
// client on first use.
func (p *Provider) resultStore() (objectStore, error) {
	storeInitMu.Lock()
	defer storeInitMu.Unlock()
	if p.store != nil {
		return p.store, nil
	}
	store, err := newMinioStore(p.cfg)
	if err != nil {
		return nil, err
	}
	p.store = store
	return store, nil
}
