package extractor

// keySet is an ordered list of equivalent field names. Lookups try the
// aliases front to back, so the most specific spelling comes first.
type keySet []string

var (
	songNameKeys   = keySet{"song_name", "track_name", "trackName", "title", "name"}
	mixKeys        = keySet{"mix_name", "mixName", "mix"}
	artistKeys     = keySet{"artist_name", "artistName", "artists", "artist", "byArtist"}
	labelKeys      = keySet{"label_name", "labelName", "label", "recordLabel"}
	genreKeys      = keySet{"genre", "genreName", "genre_name", "primaryGenre", "genres"}
	bpmKeys        = keySet{"bpm", "BPM", "tempo"}
	musicalKeyKeys = keySet{"key_name", "musical_key", "musicalKey", "key"}
	imageKeys      = keySet{"album_art", "albumArt", "artwork", "image", "images", "cover", "thumbnail"}
	remixerKeys    = keySet{"remixers", "remixer"}

	// Containers whose image stands in for a track without its own artwork.
	releaseKeys = keySet{"release", "album"}

	// Arrays under these keys are inspected even when their parent was
	// already emitted as a track.
	trackListKeys = keySet{"tracks", "trackList", "track_list", "results", "items"}

	// Name-like fields of nested objects (artists, labels, genres, keys).
	nameFieldKeys = keySet{"name", "title", "slug"}

	imageURLKeys     = keySet{"uri", "url", "src", "href", "dynamic_uri"}
	imageVariantKeys = keySet{"original", "xlarge", "large", "medium", "small", "thumbnail"}
	imagePrimaryKeys = keySet{"primary", "isPrimary", "is_primary"}

	// A name alone is not enough to call an object a track; one of these
	// must corroborate it.
	corroboratingKeySets = []keySet{artistKeys, mixKeys, labelKeys, bpmKeys}
)

const bpmKeyField = "bpm_key"

// intersects reports whether o carries any key of the set.
func (ks keySet) intersects(o *Object) bool {
	for _, key := range ks {
		if o.Has(key) {
			return true
		}
	}
	return false
}

// contains reports whether key belongs to the set.
func (ks keySet) contains(key string) bool {
	for _, k := range ks {
		if k == key {
			return true
		}
	}
	return false
}

// findFirst returns the value of the first alias present in o.
func findFirst(o *Object, ks keySet) (*Value, bool) {
	for _, key := range ks {
		if v, ok := o.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}
