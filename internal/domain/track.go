package domain

import "time"

// TrackFields lists the serialized field names of a Track in output order.
var TrackFields = []string{"song_name", "artist_name", "label_name", "genre", "bpm_key", "album_art"}

// Track represents a single normalized track extracted from a playlist page.
// Every field is a plain string; missing data is the empty string.
type Track struct {
	SongName   string `json:"song_name"`
	ArtistName string `json:"artist_name"`
	LabelName  string `json:"label_name"`
	Genre      string `json:"genre"`
	BPMKey     string `json:"bpm_key"`
	AlbumArt   string `json:"album_art"`
}

// Values returns the track fields in TrackFields order.
func (t Track) Values() []string {
	return []string{t.SongName, t.ArtistName, t.LabelName, t.Genre, t.BPMKey, t.AlbumArt}
}

// Playlist represents the tracks extracted from one playlist page.
type Playlist struct {
	Name        string    `json:"name"`
	SourceURL   string    `json:"source_url,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
	Tracks      []Track   `json:"tracks"`
}
