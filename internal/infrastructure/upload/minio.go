package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sngm3741/facts-finders/api/internal/config"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

const objectPrefix = "customers/"

// MinIOUploader stores customer photos in an S3-compatible bucket.
type MinIOUploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinIOClient builds a client from cfg. Region is always set so that
// no bucket-location lookup happens before the first PUT.
func NewMinIOClient(cfg config.MinIOConfig) (*minio.Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT must be configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}
	return client, nil
}

// NewMinIOUploader returns an uploader writing into bucket. When publicBaseURL
// is empty the returned URL is path-style on the client's endpoint.
func NewMinIOUploader(client *minio.Client, bucket, publicBaseURL string) *MinIOUploader {
	return &MinIOUploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (u *MinIOUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket %s: %v", domain.ErrUpload, u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: create bucket %s: %v", domain.ErrUpload, u.bucket, err)
	}
	return nil
}

// Upload は画像を customers/<uuid><ext> として保存し、公開 URL を返す。
func (u *MinIOUploader) Upload(ctx context.Context, image domain.Image) (string, error) {
	if len(image.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrUpload)
	}

	key := objectPrefix + uuid.NewString() + strings.ToLower(path.Ext(image.Filename))
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(image.Data), int64(len(image.Data)), minio.PutObjectOptions{
		ContentType: contentTypeOf(image),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %v", domain.ErrUpload, err)
	}
	return u.objectURL(key), nil
}

func (u *MinIOUploader) objectURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	endpoint := u.client.EndpointURL()
	return strings.TrimRight(endpoint.String(), "/") + "/" + u.bucket + "/" + key
}
