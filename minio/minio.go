package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/nakamauwu/casa/types"
)

// Minio stores attachments as objects of a single bucket.
type Minio struct {
	client    *minio.Client
	bucket    string
	publicURL *url.URL
}

type Config struct {
	Client *minio.Client
	Bucket string
	// PublicURL is the base URL objects are served from.
	// Defaults to the client endpoint.
	PublicURL string
}

func New(cfg Config) (*Minio, error) {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = cfg.Client.EndpointURL().String()
	}

	u, err := url.Parse(strings.TrimSuffix(publicURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse minio public url: %w", err)
	}

	return &Minio{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		publicURL: u,
	}, nil
}

func (m *Minio) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, path, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", path, err)
	}

	return nil
}

// Download opens path. Size and content type are the ones recorded
// when the object was stored.
func (m *Minio) Download(ctx context.Context, path string) (types.BlobObject, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return types.BlobObject{}, fmt.Errorf("get object %s: %w", path, err)
	}

	// GetObject is lazy; Stat surfaces missing objects before the caller
	// starts reading.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return types.BlobObject{}, fmt.Errorf("stat object %s: %w", path, err)
	}

	return types.BlobObject{
		ReadCloser:  obj,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

func (m *Minio) PublicURL(path string) string {
	return m.publicURL.JoinPath(m.bucket, path).String()
}

// CreateReadOnlyBucket creates the bucket if missing and allows anonymous
// reads of its objects.
func (m *Minio) CreateReadOnlyBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket exists: %w", err)
	}

	if !exists {
		err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}

	readOnlyPolicy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	err = m.client.SetBucketPolicy(ctx, m.bucket, readOnlyPolicy)
	if err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}
