package playlist

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/smoodsie/beatsync-codex/internal/extractor"
)

// DefaultName is used when a page carries no usable playlist name.
const DefaultName = "playlist"

var (
	playlistNameKeys = []string{"playlistName", "playlist_name"}
	trackListKeys    = []string{"tracks", "trackList", "track_list", "track"}
	titleKeys        = []string{"name", "title"}

	siteSuffixPattern = regexp.MustCompile(`(?i)\s*[-|]\s*Beatport\s*$`)
)

// ResolveName picks the playlist name from explicit name fields in the
// embedded payloads, then from an object that owns the track list, then from
// the document title.
func ResolveName(markup string, blobs []*extractor.Value) string {
	if name := explicitName(blobs); name != "" {
		return name
	}
	if name := containerName(blobs); name != "" {
		return name
	}
	if name := documentTitle(markup); name != "" {
		return name
	}
	return DefaultName
}

func explicitName(blobs []*extractor.Value) string {
	var name string
	walkObjects(blobs, func(o *extractor.Object) bool {
		name = stringField(o, playlistNameKeys)
		return name != ""
	})
	return name
}

// containerName finds a non-track object holding a non-empty track array and
// a name.
func containerName(blobs []*extractor.Value) string {
	var name string
	walkObjects(blobs, func(o *extractor.Object) bool {
		if extractor.IsTrack(o) || !hasTrackList(o) {
			return false
		}
		name = stringField(o, titleKeys)
		return name != ""
	})
	return name
}

func hasTrackList(o *extractor.Object) bool {
	for _, key := range trackListKeys {
		if v, ok := o.Get(key); ok && v.Kind == extractor.KindArray && len(v.Items) > 0 {
			return true
		}
	}
	return false
}

func stringField(o *extractor.Object, keys []string) string {
	for _, key := range keys {
		if v, ok := o.Get(key); ok && v.Kind == extractor.KindString {
			if text := strings.TrimSpace(v.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

// walkObjects visits every object in document order until visit returns
// true.
func walkObjects(blobs []*extractor.Value, visit func(*extractor.Object) bool) {
	stack := make([]*extractor.Value, 0, len(blobs))
	for i := len(blobs) - 1; i >= 0; i-- {
		stack = append(stack, blobs[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		var children []*extractor.Value
		switch node.Kind {
		case extractor.KindObject:
			if node.Object == nil {
				continue
			}
			if visit(node.Object) {
				return
			}
			children = node.Object.Values()
		case extractor.KindArray:
			children = node.Items
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// documentTitle reads og:title or <title>, without the site suffix.
func documentTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	candidates := []string{
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
	}
	for _, candidate := range candidates {
		title := strings.TrimSpace(siteSuffixPattern.ReplaceAllString(strings.TrimSpace(candidate), ""))
		if title != "" {
			return title
		}
	}
	return ""
}
