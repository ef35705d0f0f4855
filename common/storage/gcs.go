package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/bpresles/CasaNova/common/config"
	"google.golang.org/api/option"
)

// GCSStorage implements ObjectStore on one Google Cloud Storage bucket
type GCSStorage struct {
	client *storage.Client
	bucket string
}

// NewGCSStorage creates a GCS storage service. Without a credentials file the
// client falls back to application default credentials.
func NewGCSStorage(ctx context.Context, cfg config.GCSConfig) (*GCSStorage, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	return &GCSStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (g *GCSStorage) Put(ctx context.Context, obj Object) error {
	wc := g.client.Bucket(g.bucket).Object(obj.Name).NewWriter(ctx)
	wc.ContentType = obj.ContentType
	wc.Metadata = obj.Metadata

	if _, err := io.Copy(wc, obj.Body); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to upload %s to bucket %s: %w", obj.Name, g.bucket, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s in bucket %s: %w", obj.Name, g.bucket, err)
	}
	return nil
}

func (g *GCSStorage) Close() error {
	return g.client.Close()
}
