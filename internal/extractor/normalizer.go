package extractor

import (
	"strings"

	"github.com/smoodsie/beatsync-codex/internal/domain"
)

// maxArtDepth bounds how far album art resolution follows nested objects
// and lists.
const maxArtDepth = 4

// NormalizeRecord maps a candidate record onto the fixed track schema.
// Unexpected shapes degrade to an empty field.
func NormalizeRecord(o *Object) domain.Track {
	if o == nil {
		return domain.Track{}
	}
	return domain.Track{
		SongName:   songName(o),
		ArtistName: joinedNames(o, artistKeys),
		LabelName:  joinedNames(o, labelKeys),
		Genre:      joinedNames(o, genreKeys),
		BPMKey:     bpmKey(o),
		AlbumArt:   albumArt(o),
	}
}

// nameOf renders a scalar, or the first usable name field of an object.
func nameOf(v *Value) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindString, KindNumber:
		return scalarText(v)
	case KindObject:
		if v.Object == nil {
			return ""
		}
		for _, key := range nameFieldKeys {
			field, ok := v.Object.Get(key)
			if !ok {
				continue
			}
			if name := scalarText(field); name != "" {
				return name
			}
		}
	}
	return ""
}

// namesOf flattens a string, an object, or a list of either into names.
func namesOf(v *Value) []string {
	if v == nil {
		return nil
	}
	if v.Kind != KindArray {
		if name := nameOf(v); name != "" {
			return []string{name}
		}
		return nil
	}

	names := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		if item == nil || item.Kind == KindArray {
			continue
		}
		if name := nameOf(item); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func joinedNames(o *Object, ks keySet) string {
	v, ok := findFirst(o, ks)
	if !ok {
		return ""
	}
	return strings.Join(namesOf(v), ", ")
}

// songName returns the title with its mix name appended. Without a mix name,
// remixers are appended as "<A, B> Remix".
func songName(o *Object) string {
	v, ok := findFirst(o, songNameKeys)
	if !ok {
		return ""
	}
	title := nameOf(v)
	if title == "" {
		return ""
	}

	var mix string
	if mv, ok := findFirst(o, mixKeys); ok {
		mix = nameOf(mv)
	}
	if mix != "" {
		if !containsFold(title, mix) {
			title = strings.TrimSpace(title + " " + mix)
		}
		return title
	}

	if rv, ok := findFirst(o, remixerKeys); ok {
		if remixers := namesOf(rv); len(remixers) > 0 {
			remix := strings.Join(remixers, ", ") + " Remix"
			if !containsFold(title, remix) {
				title = strings.TrimSpace(title + " " + remix)
			}
		}
	}
	return title
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// bpmKey composes "<bpm> bpm, <key>" from whichever halves are present.
func bpmKey(o *Object) string {
	var bpm, key string
	if v, ok := findFirst(o, bpmKeys); ok {
		bpm = bpmText(v)
	}
	if v, ok := findFirst(o, musicalKeyKeys); ok {
		key = nameOf(v)
	}

	switch {
	case bpm != "" && key != "":
		return bpm + " bpm, " + key
	case bpm != "":
		return bpm + " bpm"
	case key != "":
		return key
	}

	if v, ok := o.Get(bpmKeyField); ok && v.Kind == KindString {
		return strings.TrimSpace(v.Text)
	}
	return ""
}

// bpmText renders a tempo; zero and non-numeric text count as absent, except
// that free-form text such as "128-130" is kept.
func bpmText(v *Value) string {
	switch v.Kind {
	case KindNumber:
		if f, ok := numberOf(v); ok && f == 0 {
			return ""
		}
		return scalarText(v)
	case KindString:
		text := strings.TrimSpace(v.Text)
		if f, ok := numberOf(v); ok {
			if f == 0 {
				return ""
			}
			return formatNumber(text)
		}
		return text
	}
	return ""
}

// albumArt resolves the record's image, falling back to the image of its
// release or album.
func albumArt(o *Object) string {
	if v, ok := findFirst(o, imageKeys); ok {
		if url := imageURL(v, 0); url != "" {
			return url
		}
	}

	rv, ok := findFirst(o, releaseKeys)
	if !ok || rv.Kind != KindObject || rv.Object == nil {
		return ""
	}
	if v, ok := findFirst(rv.Object, imageKeys); ok {
		return imageURL(v, 0)
	}
	return ""
}

func imageURL(v *Value, depth int) string {
	if v == nil || depth > maxArtDepth {
		return ""
	}
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Text)
	case KindObject:
		return objectImageURL(v.Object, depth)
	case KindArray:
		return listImageURL(v.Items, depth)
	}
	return ""
}

// objectImageURL tries direct URL fields, then size-named variants, then any
// http value.
func objectImageURL(o *Object, depth int) string {
	if o == nil {
		return ""
	}
	for _, key := range imageURLKeys {
		if v, ok := o.Get(key); ok && v.Kind == KindString {
			if url := strings.TrimSpace(v.Text); url != "" {
				return url
			}
		}
	}
	for _, key := range imageVariantKeys {
		if v, ok := o.Get(key); ok {
			if url := imageURL(v, depth+1); url != "" {
				return url
			}
		}
	}
	for _, v := range o.Values() {
		if v != nil && v.Kind == KindString && strings.HasPrefix(strings.TrimSpace(v.Text), "http") {
			return strings.TrimSpace(v.Text)
		}
	}
	return ""
}

// listImageURL prefers an element flagged primary, then the largest one,
// then the first that resolves.
func listImageURL(items []*Value, depth int) string {
	var (
		best     *Value
		bestArea float64
	)
	for _, item := range items {
		if item == nil || item.Kind != KindObject || item.Object == nil {
			continue
		}
		if flag, ok := findFirst(item.Object, imagePrimaryKeys); ok && truthy(flag) {
			if url := imageURL(item, depth+1); url != "" {
				return url
			}
		}
		if area := imageArea(item.Object); area > bestArea {
			best, bestArea = item, area
		}
	}
	if best != nil {
		if url := imageURL(best, depth+1); url != "" {
			return url
		}
	}

	for _, item := range items {
		if url := imageURL(item, depth+1); url != "" {
			return url
		}
	}
	return ""
}

// imageArea ranks an image variant by width*height, or by whichever single
// dimension it reports.
func imageArea(o *Object) float64 {
	width, hasWidth := fieldNumber(o, "width")
	height, hasHeight := fieldNumber(o, "height")
	switch {
	case hasWidth && hasHeight:
		return width * height
	case hasWidth:
		return width
	case hasHeight:
		return height
	}
	size, _ := fieldNumber(o, "size")
	return size
}

func fieldNumber(o *Object, key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return numberOf(v)
}
