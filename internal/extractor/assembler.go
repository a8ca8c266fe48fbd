package extractor

import "github.com/smoodsie/beatsync-codex/internal/domain"

type dedupKey struct {
	songName   string
	artistName string
	labelName  string
}

// AssemblePlaylist drops tracks without a song name and collapses tracks
// sharing song, artist and label into their first occurrence. Order of first
// occurrences is preserved.
func AssemblePlaylist(tracks []domain.Track) []domain.Track {
	result := make([]domain.Track, 0, len(tracks))
	seen := make(map[dedupKey]struct{}, len(tracks))

	for _, track := range tracks {
		if track.SongName == "" {
			continue
		}
		key := dedupKey{songName: track.SongName, artistName: track.ArtistName, labelName: track.LabelName}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, track)
	}

	return result
}
