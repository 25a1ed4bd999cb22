package integration

import (
	"strings"
)

// extraLabelToken marks media assets (e.g. detail shots) that must never be
// attached to a variant
const extraLabelToken = "extra"

// EligibleLabel reports whether a media label can participate in matching.
// Blank labels and labels carrying the extra token are excluded.
func EligibleLabel(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, token := range strings.Split(label, ",") {
		if strings.EqualFold(strings.TrimSpace(token), extraLabelToken) {
			return false
		}
	}
	return true
}

// MatchMedia pairs media assets to variants by cross-referencing the
// comma-separated provider variant IDs in each media label against each
// variant's barcode. One media asset may match multiple variants (a group
// shot lists several IDs); each variant receives media at most once per
// pass, so re-observing the same pair emits nothing.
//
// Matching by embedded identifier rather than creation order tolerates the
// reordering introduced by chunked creation and paginated fetch.
func MatchMedia(variants []VariantRef, media []MediaAssetRef) []MediaPairing {
	matched := make(map[string]bool, len(variants))
	pairings := make([]MediaPairing, 0, len(variants))

	for _, m := range media {
		if !EligibleLabel(m.Label) {
			continue
		}

		ids := make(map[string]bool)
		for _, token := range strings.Split(m.Label, ",") {
			if token = strings.TrimSpace(token); token != "" {
				ids[token] = true
			}
		}

		for _, v := range variants {
			if v.Barcode == "" || !ids[v.Barcode] {
				continue
			}
			if matched[v.ID] {
				continue
			}
			matched[v.ID] = true
			pairings = append(pairings, MediaPairing{VariantID: v.ID, MediaID: m.ID})
		}
	}

	return pairings
}

// Chunk splits items into consecutive slices of at most size elements.
// The last chunk carries the remainder.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
