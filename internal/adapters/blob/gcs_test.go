package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardImageURL(t *testing.T) {
	store := NewGCSStore(nil, "", "")

	url, err := store.CardImageURL(context.Background(), "spread-042.png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/card-images/spread-042.png", url)
}

func TestCardImageURL_EmptyName(t *testing.T) {
	store := NewGCSStore(nil, "", "")

	_, err := store.CardImageURL(context.Background(), "")
	assert.Error(t, err)
}

func TestBlueprintURL(t *testing.T) {
	store := NewGCSStore(nil, "", "")

	url, err := store.BlueprintURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/blueprint-images/celtic-cross-spread.png", url)
}

func TestBucketOverrides(t *testing.T) {
	store := NewGCSStore(nil, "my-cards", "my-blueprints")

	url, err := store.CardImageURL(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/my-cards/a.png", url)

	url, err = store.BlueprintURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/my-blueprints/celtic-cross-spread.png", url)
}
