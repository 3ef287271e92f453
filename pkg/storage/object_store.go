package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"estately/pkg/domain"
)

// MediaStore provides remote storage for listing media and profile pictures.
// Uploads consume a local temp file; the file is removed on both the success
// and the failure path.
type MediaStore interface {
	UploadImage(ctx context.Context, localPath string) (domain.Asset, error)
	UploadVideo(ctx context.Context, localPath string) (domain.Asset, error)
	DeleteImage(ctx context.Context, id string) error
	DeleteVideo(ctx context.Context, id string) error
}

// MinioStore implements MediaStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

// UploadImage stores an image under images/ and removes the local file.
func (m *MinioStore) UploadImage(ctx context.Context, localPath string) (domain.Asset, error) {
	return m.upload(ctx, "images", localPath)
}

// UploadVideo stores a video under videos/ and removes the local file.
func (m *MinioStore) UploadVideo(ctx context.Context, localPath string) (domain.Asset, error) {
	return m.upload(ctx, "videos", localPath)
}

func (m *MinioStore) upload(ctx context.Context, prefix, localPath string) (domain.Asset, error) {
	defer os.Remove(localPath)
	ext := filepath.Ext(localPath)
	key := path.Join(prefix, uuid.NewString()+ext)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.FPutObject(ctx, m.bucket, key, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return domain.Asset{}, fmt.Errorf("put object: %w", err)
	}
	return domain.Asset{URL: m.objectURL(key), ID: key}, nil
}

// DeleteImage removes an image object by its asset ID.
func (m *MinioStore) DeleteImage(ctx context.Context, id string) error {
	return m.remove(ctx, id)
}

// DeleteVideo removes a video object by its asset ID.
func (m *MinioStore) DeleteVideo(ctx context.Context, id string) error {
	return m.remove(ctx, id)
}

func (m *MinioStore) remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if err := m.client.RemoveObject(ctx, m.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (m *MinioStore) objectURL(key string) string {
	base := m.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", base.Scheme, base.Host, m.bucket, key)
}
