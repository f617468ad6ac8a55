package receipts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanhanxue/260110-personal-budget/internal/logger"
)

func testUploader(bucket, publicURL string) *Uploader {
	return NewUploader(bucket, publicURL, logger.NewWithWriter(&strings.Builder{}))
}

func TestUpload_NoBucketConfigured(t *testing.T) {
	u := testUploader("", "")

	_, err := u.Upload(context.Background(), "image/jpeg", strings.NewReader("jpeg bytes"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUpload_RejectsNonImageTypes(t *testing.T) {
	u := testUploader("receipts-bucket", "")

	for _, contentType := range []string{"application/pdf", "text/html", "image/gif", ""} {
		_, err := u.Upload(context.Background(), contentType, strings.NewReader("payload"))
		assert.ErrorIs(t, err, ErrInvalidType, "content type %q", contentType)
	}
}

func TestObjectURL(t *testing.T) {
	object := "receipts/2025/06/15/abc.jpg"

	t.Run("canonical", func(t *testing.T) {
		u := testUploader("receipts-bucket", "")
		assert.Equal(t, "https://storage.googleapis.com/receipts-bucket/"+object, u.objectURL(object))
	})

	t.Run("custom domain", func(t *testing.T) {
		u := testUploader("receipts-bucket", "https://receipts.example.com")
		assert.Equal(t, "https://receipts.example.com/"+object, u.objectURL(object))
	})

	t.Run("custom domain with trailing slash", func(t *testing.T) {
		u := testUploader("receipts-bucket", "https://receipts.example.com/")
		assert.Equal(t, "https://receipts.example.com/"+object, u.objectURL(object))
	})
}
