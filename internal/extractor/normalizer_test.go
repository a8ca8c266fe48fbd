package extractor

import (
	"testing"

	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRecord(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected domain.Track
	}{
		{
			name: "marketplace track",
			input: `{
				"id": 1,
				"name": "Foo",
				"mix_name": "Extended Mix",
				"artists": [{"id": 7, "name": "A"}, {"name": "B"}],
				"label": {"id": 3, "name": "L"},
				"genre": {"id": 5, "name": "Techno (Peak Time)"},
				"bpm": 128,
				"key": {"name": "F Minor"},
				"image": {"id": 9, "uri": "https://img.example.com/1.jpg"}
			}`,
			expected: domain.Track{
				SongName:   "Foo Extended Mix",
				ArtistName: "A, B",
				LabelName:  "L",
				Genre:      "Techno (Peak Time)",
				BPMKey:     "128 bpm, F Minor",
				AlbumArt:   "https://img.example.com/1.jpg",
			},
		},
		{
			name:     "mix already in title",
			input:    `{"title":"Foo (Extended Mix)","mix":"extended mix","artist":"A"}`,
			expected: domain.Track{SongName: "Foo (Extended Mix)", ArtistName: "A"},
		},
		{
			name:     "mix as object",
			input:    `{"name":"Foo","mix":{"name":"Dub"},"artist":"A"}`,
			expected: domain.Track{SongName: "Foo Dub", ArtistName: "A"},
		},
		{
			name:     "remixers without mix",
			input:    `{"name":"Foo","artists":["A"],"remixers":[{"name":"R1"},{"name":"R2"}]}`,
			expected: domain.Track{SongName: "Foo R1, R2 Remix", ArtistName: "A"},
		},
		{
			name:     "artist list of strings",
			input:    `{"name":"Foo","artist_name":["A","B"]}`,
			expected: domain.Track{SongName: "Foo", ArtistName: "A, B"},
		},
		{
			name:     "label list of strings",
			input:    `{"name":"Foo","label":["L1","L2"]}`,
			expected: domain.Track{SongName: "Foo", LabelName: "L1, L2"},
		},
		{
			name:     "mixed artist list keeps usable entries",
			input:    `{"name":"Foo","artists":[{"name":"A"},null,{"id":2},"B",[1]]}`,
			expected: domain.Track{SongName: "Foo", ArtistName: "A, B"},
		},
		{
			name:     "genre by slug",
			input:    `{"name":"Foo","artist":"A","genre":{"slug":"melodic-house"}}`,
			expected: domain.Track{SongName: "Foo", ArtistName: "A", Genre: "melodic-house"},
		},
		{
			name:     "json-ld recording",
			input:    `{"@type":"MusicRecording","name":"Foo","byArtist":{"@type":"MusicGroup","name":"A"},"recordLabel":"L"}`,
			expected: domain.Track{SongName: "Foo", ArtistName: "A", LabelName: "L"},
		},
		{
			name:     "bpm only",
			input:    `{"name":"Foo","bpm":"126"}`,
			expected: domain.Track{SongName: "Foo", BPMKey: "126 bpm"},
		},
		{
			name:     "key only",
			input:    `{"name":"Foo","artist":"A","musical_key":"Am"}`,
			expected: domain.Track{SongName: "Foo", ArtistName: "A", BPMKey: "Am"},
		},
		{
			name:     "integral float bpm",
			input:    `{"name":"Foo","bpm":128.0,"key":"C"}`,
			expected: domain.Track{SongName: "Foo", BPMKey: "128 bpm, C"},
		},
		{
			name:     "zero bpm is absent",
			input:    `{"name":"Foo","bpm":0,"key":"C"}`,
			expected: domain.Track{SongName: "Foo", BPMKey: "C"},
		},
		{
			name:     "shape mismatches degrade to empty",
			input:    `{"name":"Foo","artist":true,"label":{"id":7},"genre":[[]],"bpm":{"value":1},"key":false,"image":42}`,
			expected: domain.Track{SongName: "Foo"},
		},
		{
			name:     "title of wrong shape",
			input:    `{"name":["Foo"],"artist":"A"}`,
			expected: domain.Track{ArtistName: "A"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := mustParse(t, tc.input)
			assert.Equal(t, tc.expected, NormalizeRecord(record.Object))
		})
	}
}

func TestNormalizeRecordFirstKeyWins(t *testing.T) {
	record := mustParse(t, `{"name":"Generic","song_name":"Specific","artist":"A"}`)
	assert.Equal(t, "Specific", NormalizeRecord(record.Object).SongName)
}

func TestNormalizeAlbumArt(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain string", `{"album_art":"https://a/1.jpg"}`, "https://a/1.jpg"},
		{"url field", `{"artwork":{"url":"https://a/2.jpg"}}`, "https://a/2.jpg"},
		{"size variants", `{"image":{"small":"https://a/s.jpg","large":"https://a/l.jpg"}}`, "https://a/l.jpg"},
		{"nested variant object", `{"cover":{"original":{"src":"https://a/o.jpg"}}}`, "https://a/o.jpg"},
		{"any http value", `{"image":{"id":4,"location":"https://a/any.jpg"}}`, "https://a/any.jpg"},
		{
			"largest in list",
			`{"images":[{"url":"https://a/100.jpg","width":100,"height":100},{"url":"https://a/500.jpg","width":500,"height":500},{"url":"https://a/250.jpg","width":250,"height":250}]}`,
			"https://a/500.jpg",
		},
		{
			"primary flag wins",
			`{"images":[{"url":"https://a/big.jpg","width":1000},{"url":"https://a/primary.jpg","width":10,"primary":true}]}`,
			"https://a/primary.jpg",
		},
		{"first resolvable in list", `{"images":[{"id":1},"https://a/first.jpg","https://a/second.jpg"]}`, "https://a/first.jpg"},
		{"release fallback", `{"release":{"name":"R","image":{"uri":"https://a/release.jpg"}}}`, "https://a/release.jpg"},
		{"own image beats release", `{"image":"https://a/own.jpg","release":{"image":"https://a/release.jpg"}}`, "https://a/own.jpg"},
		{"nothing usable", `{"image":{"id":1},"release":"R"}`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := mustParse(t, tc.input)
			assert.Equal(t, tc.expected, albumArt(record.Object))
		})
	}
}

func TestNormalizeAlbumArtDepthBound(t *testing.T) {
	v := StringValue("https://a/deep.jpg")
	for i := 0; i < 2*maxArtDepth; i++ {
		v = ArrayValue(v)
	}
	record := NewObject()
	record.Set("image", v)

	assert.Equal(t, "", albumArt(record))
}

// trackObject rebuilds a normalized track as a record with identity keys.
func trackObject(track domain.Track) *Object {
	o := NewObject()
	for i, value := range track.Values() {
		o.Set(domain.TrackFields[i], StringValue(value))
	}
	return o
}

func TestNormalizeRecordIdempotent(t *testing.T) {
	inputs := []string{
		`{"name":"Foo","mix_name":"Extended Mix","artists":[{"name":"A"},{"name":"B"}],"label":{"name":"L"},"genre":{"name":"G"},"bpm":128,"key":{"name":"F Minor"},"image":{"uri":"https://a/1.jpg"}}`,
		`{"name":"Foo","artists":["A"],"remixers":["R"],"bpm":"124"}`,
		`{"name":"Foo","artist":"A","key":"Am"}`,
		`{"name":"Foo","artist":"A"}`,
	}

	for _, input := range inputs {
		first := NormalizeRecord(mustParse(t, input).Object)
		second := NormalizeRecord(trackObject(first))
		assert.Equal(t, first, second, input)
	}
}
