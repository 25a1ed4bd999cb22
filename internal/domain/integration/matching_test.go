package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		eligible bool
	}{
		{"single id", "101", true},
		{"multiple ids", "101,102", true},
		{"blank", "", false},
		{"whitespace only", "   ", false},
		{"extra token", "extra", false},
		{"extra among ids", "101,extra", false},
		{"extra uppercase", "EXTRA", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eligible, EligibleLabel(tt.label))
		})
	}
}

func TestMatchMedia(t *testing.T) {
	variants := []VariantRef{
		{ID: "gid://v/1", Barcode: "101"},
		{ID: "gid://v/2", Barcode: "102"},
		{ID: "gid://v/3", Barcode: "103"},
	}

	t.Run("multi-id label matches each listed variant", func(t *testing.T) {
		media := []MediaAssetRef{{ID: "gid://m/1", Label: "101,102"}}

		pairings := MatchMedia(variants, media)

		require.Len(t, pairings, 2)
		assert.Equal(t, MediaPairing{VariantID: "gid://v/1", MediaID: "gid://m/1"}, pairings[0])
		assert.Equal(t, MediaPairing{VariantID: "gid://v/2", MediaID: "gid://m/1"}, pairings[1])
	})

	t.Run("variant receives media at most once per pass", func(t *testing.T) {
		media := []MediaAssetRef{
			{ID: "gid://m/1", Label: "101,102"},
			{ID: "gid://m/1", Label: "101,102"},
			{ID: "gid://m/2", Label: "101"},
		}

		pairings := MatchMedia(variants, media)

		assert.Len(t, pairings, 2)
	})

	t.Run("dedupe does not carry across passes", func(t *testing.T) {
		// each pass starts from scratch: a second pass over identical
		// storefront state re-emits the same pairings, so callers must not
		// re-run matching expecting a no-op
		media := []MediaAssetRef{{ID: "gid://m/1", Label: "101,102"}}

		first := MatchMedia(variants, media)
		second := MatchMedia(variants, media)

		require.Len(t, first, 2)
		assert.Equal(t, first, second)
	})

	t.Run("extra-labeled media is ignored", func(t *testing.T) {
		media := []MediaAssetRef{
			{ID: "gid://m/1", Label: "101,extra"},
			{ID: "gid://m/2", Label: "103"},
		}

		pairings := MatchMedia(variants, media)

		require.Len(t, pairings, 1)
		assert.Equal(t, "gid://v/3", pairings[0].VariantID)
	})

	t.Run("blank barcode never matches", func(t *testing.T) {
		blank := []VariantRef{{ID: "gid://v/9", Barcode: ""}}
		media := []MediaAssetRef{{ID: "gid://m/1", Label: "101"}}

		assert.Empty(t, MatchMedia(blank, media))
	})

	t.Run("label whitespace is tolerated", func(t *testing.T) {
		media := []MediaAssetRef{{ID: "gid://m/1", Label: " 101 , 103 "}}

		pairings := MatchMedia(variants, media)

		assert.Len(t, pairings, 2)
	})
}

func TestChunk(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	chunks := Chunk(items, 10)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 3)

	assert.Nil(t, Chunk([]int{}, 10))
	assert.Nil(t, Chunk(items, 0))

	single := Chunk([]int{1, 2}, 20)
	require.Len(t, single, 1)
	assert.Len(t, single[0], 2)
}
