// Package storage wraps the object storage bucket holding vacancy images and
// resume documents.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"hireflow/internal/config"
	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

// Image uploads accept these extensions only
var allowedImageTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// BucketClient wraps the default storage bucket of the project
type BucketClient struct {
	bucket     *gcs.BucketHandle
	bucketName string
	logger     types.Logger
}

// NewBucketClient derives the bucket handle from the Firebase app
func NewBucketClient(ctx context.Context, app *firebase.App, cfg *config.Config) (*BucketClient, error) {
	logger := logging.GetGlobalLogger()

	if cfg.Firebase.StorageBucket == "" {
		return nil, fmt.Errorf("storage bucket name is required")
	}

	st, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	bucket, err := st.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default bucket: %w", err)
	}

	logger.Info("Object storage client initialized", map[string]interface{}{
		"bucket": cfg.Firebase.StorageBucket,
	})

	return &BucketClient{
		bucket:     bucket,
		bucketName: cfg.Firebase.StorageBucket,
		logger:     logger,
	}, nil
}

// UploadImage stores a vacancy image and returns its public URL. The file
// extension decides the content type; anything outside jpg/jpeg/png is
// rejected.
func (b *BucketClient) UploadImage(ctx context.Context, vacancyID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(extensionOf(filename), "."))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q, allowed: jpg, jpeg, png", ext)
	}

	objectKey := fmt.Sprintf("vacancies/images/%s.%s", vacancyID, ext)

	w := b.bucket.Object(objectKey).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize image upload: %w", err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucketName, objectKey)

	b.logger.Info("Vacancy image uploaded", map[string]interface{}{
		"vacancy_id": vacancyID,
		"object_key": objectKey,
		"size_bytes": len(data),
	})
	return url, nil
}

// SignedURL produces a time-limited read URL for a stored object
func (b *BucketClient) SignedURL(objectPath string, ttl time.Duration) (string, time.Time, error) {
	expires := time.Now().Add(ttl)

	url, err := b.bucket.SignedURL(objectPath, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: expires,
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign url for %s: %w", objectPath, err)
	}
	return url, expires, nil
}

func extensionOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}
