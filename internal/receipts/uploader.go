package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxUploadSize caps receipt photos at 10MB.
const MaxUploadSize = 10 << 20

// allowedTypes maps accepted receipt content types to object extensions.
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
}

// ErrNotConfigured is returned when no receipts bucket is set.
var ErrNotConfigured = errors.New("RECEIPTS_BUCKET environment variable is not configured")

// ErrInvalidType is returned for content types outside the image allowlist.
var ErrInvalidType = errors.New("invalid file type. Allowed: JPEG, PNG, WebP, HEIC")

// Uploader stores receipt photos in a GCS bucket and hands back a public
// URL to persist alongside the transaction. It assumes Application Default
// Credentials are configured.
type Uploader struct {
	bucket    string
	publicURL string // optional custom serving domain
	log       zerolog.Logger
}

// NewUploader creates a receipt uploader for the given bucket. publicURL,
// when set, is the base under which uploaded objects are publicly served;
// otherwise the canonical storage.googleapis.com form is used.
func NewUploader(bucket, publicURL string, log zerolog.Logger) *Uploader {
	return &Uploader{bucket: bucket, publicURL: publicURL, log: log}
}

// Upload writes the receipt bytes to the bucket under a date-partitioned,
// collision-free object name and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, contentType string, r io.Reader) (string, error) {
	if u.bucket == "" {
		return "", ErrNotConfigured
	}

	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrInvalidType
	}

	objectName := fmt.Sprintf("receipts/%s/%s.%s", time.Now().Format("2006/01/02"), uuid.New().String(), ext)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	written, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy receipt to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	u.log.Info().
		Str("object", objectName).
		Int64("bytes", written).
		Msg("Receipt uploaded")

	return u.objectURL(objectName), nil
}

func (u *Uploader) objectURL(objectName string) string {
	if u.publicURL != "" {
		return strings.TrimRight(u.publicURL, "/") + "/" + objectName
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName)
}
