// Package extractor pulls track metadata out of JSON embedded in playlist
// page markup.
//
// The pipeline runs in four stages: LocateBlobs finds and parses embedded
// payloads, FindRecords collects track-like objects from them,
// NormalizeRecord maps each onto domain.Track and AssemblePlaylist filters
// and deduplicates the result. Every stage is total and holds no state, so
// ExtractPlaylist is safe for concurrent use.
package extractor

import (
	"log/slog"

	"github.com/smoodsie/beatsync-codex/internal/domain"
)

// ExtractPlaylist returns the deduplicated tracks embedded in markup. A page
// without recognizable payloads yields an empty slice.
func ExtractPlaylist(html string) []domain.Track {
	return ExtractFromBlobs(LocateBlobs(html))
}

// ExtractFromBlobs runs the record stages over already located blobs.
func ExtractFromBlobs(blobs []*Value) []domain.Track {
	records := FindRecords(blobs)

	tracks := make([]domain.Track, 0, len(records))
	for _, record := range records {
		tracks = append(tracks, NormalizeRecord(record))
	}

	result := AssemblePlaylist(tracks)
	slog.Debug("Extracted tracks", "blobs", len(blobs), "records", len(records), "tracks", len(result))
	return result
}
