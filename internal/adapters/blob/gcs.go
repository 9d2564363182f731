// Package blob implements the object store client for card imagery on
// Google Cloud Storage. The buckets are pre-provisioned; URL lookups are
// computed locally and never touch the network, matching the read path's
// no-upload-on-read contract.
package blob

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/tvonment/tarot-backend/internal/domain"
)

const (
	defaultCardsBucket      = "card-images"
	defaultBlueprintsBucket = "blueprint-images"
	blueprintObject         = "celtic-cross-spread.png"
)

type GCSStore struct {
	client           *storage.Client
	cardsBucket      string
	blueprintsBucket string
}

// NewGCSStore wires the store against the given buckets; empty names fall
// back to the pre-provisioned defaults.
func NewGCSStore(client *storage.Client, cardsBucket, blueprintsBucket string) *GCSStore {
	if cardsBucket == "" {
		cardsBucket = defaultCardsBucket
	}
	if blueprintsBucket == "" {
		blueprintsBucket = defaultBlueprintsBucket
	}
	return &GCSStore{
		client:           client,
		cardsBucket:      cardsBucket,
		blueprintsBucket: blueprintsBucket,
	}
}

func (s *GCSStore) CardImageURL(_ context.Context, fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("file name is required")
	}
	return publicURL(s.cardsBucket, fileName), nil
}

func (s *GCSStore) BlueprintURL(_ context.Context) (string, error) {
	return publicURL(s.blueprintsBucket, blueprintObject), nil
}

// UploadCardImage writes the image through the SDK and returns its public
// URL. Asset-ingestion path only.
func (s *GCSStore) UploadCardImage(ctx context.Context, fileName string, data []byte) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("file name is required")
	}

	w := s.client.Bucket(s.cardsBucket).Object(fileName).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("gcs upload %s: %w", fileName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", fileName, err)
	}

	return publicURL(s.cardsBucket, fileName), nil
}

func publicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

var _ domain.ObjectStore = (*GCSStore)(nil)
