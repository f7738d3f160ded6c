package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/config"
)

// MaxURLExpiry is the longest lifetime S3 accepts for a presigned URL.
const MaxURLExpiry = 7 * 24 * time.Hour

// accessProbeKey is looked up by CheckAccess. It does not have to exist.
const accessProbeKey = ".access-probe"

type Storage interface {
	PutObject(ctx context.Context, key string, file io.Reader, size int64, contentType string) error
	PresignedPutURL(ctx context.Context, key string) (string, error)
	PresignedGetURL(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	CheckAccess(ctx context.Context) error
}

type MinIOClient struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating MinIO client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 || expiry > MaxURLExpiry {
		expiry = MaxURLExpiry
	}

	return &MinIOClient{client: client, bucket: cfg.BucketName, expiry: expiry}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *MinIOClient) EnsureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return apperr.Upstream(err, "error checking bucket %s", m.bucket)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return apperr.Upstream(err, "error creating bucket %s", m.bucket)
	}
	return nil
}

// PutObject writes the object privately; readers get presigned URLs.
func (m *MinIOClient) PutObject(ctx context.Context, key string, file io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return apperr.Upstream(err, "error uploading object %s", key)
	}
	return nil
}

func (m *MinIOClient) PresignedPutURL(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, key, m.expiry)
	if err != nil {
		return "", apperr.Upstream(err, "error presigning upload for %s", key)
	}
	return u.String(), nil
}

func (m *MinIOClient) PresignedGetURL(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, url.Values{})
	if err != nil {
		return "", apperr.Upstream(err, "error presigning download for %s", key)
	}
	return u.String(), nil
}

func (m *MinIOClient) DeleteObject(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return apperr.Upstream(err, "error removing object %s", key)
	}
	return nil
}

// CheckAccess stats a probe object. A missing object still proves the
// credentials and bucket are usable.
func (m *MinIOClient) CheckAccess(ctx context.Context) error {
	_, err := m.client.StatObject(ctx, m.bucket, accessProbeKey, minio.StatObjectOptions{})
	if err == nil {
		return nil
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil
	}

	return apperr.Upstream(err, "storage bucket %s is not accessible", m.bucket)
}
