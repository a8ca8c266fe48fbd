package extractor

import (
	"html"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// payload is one raw JSON text found in markup.
type payload struct {
	offset int
	raw    string
}

// source extracts raw JSON texts for one embedding pattern.
type source struct {
	name    string
	extract func(markup string) []payload
}

// sources are independent of each other; adding a pattern means adding an
// entry here.
var sources = []source{
	{name: "next-data", extract: nextDataSource},
	{name: "window-state", extract: windowStateSource},
	{name: "data-attribute", extract: dataAttributeSource},
	{name: "json-ld", extract: jsonLDSource},
}

var (
	nextDataPattern = regexp.MustCompile(`(?is)<script[^>]+id=["']__NEXT_DATA__["'][^>]*>(.*?)</script>`)

	windowStatePattern = regexp.MustCompile(`(?s)window\.(?:__PRELOADED_STATE__|__INITIAL_STATE__|__APOLLO_STATE__|__NUXT__)\s*=\s*(\{.*?\})\s*;`)

	dataAttributePattern = regexp.MustCompile(`\bdata-tracks?\s*=\s*(?:"([\[{][^"]*)"|'([\[{][^']*)')`)

	jsonLDPattern = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
)

// LocateBlobs returns every JSON payload embedded in markup that parses
// successfully, in order of appearance. Malformed matches are skipped; no
// match yields an empty slice.
func LocateBlobs(markup string) []*Value {
	type located struct {
		payload
		source string
	}

	var found []located
	for _, src := range sources {
		for _, p := range src.extract(markup) {
			found = append(found, located{payload: p, source: src.name})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].offset < found[j].offset
	})

	blobs := make([]*Value, 0, len(found))
	for _, f := range found {
		blob, err := ParseJSON([]byte(f.raw))
		if err != nil {
			slog.Debug("Skipping malformed payload", "source", f.source, "offset", f.offset, "error", err)
			continue
		}
		blobs = append(blobs, blob)
	}
	return blobs
}

// submatches collects capture group 1 of every match, transformed by clean.
func submatches(re *regexp.Regexp, markup string, clean func(string) string) []payload {
	var payloads []payload
	for _, idx := range re.FindAllStringSubmatchIndex(markup, -1) {
		payloads = append(payloads, payload{
			offset: idx[0],
			raw:    clean(markup[idx[2]:idx[3]]),
		})
	}
	return payloads
}

// nextDataSource reads the framework state script tag.
func nextDataSource(markup string) []payload {
	return submatches(nextDataPattern, markup, func(s string) string {
		return strings.TrimSpace(html.UnescapeString(s))
	})
}

// windowStateSource reads `window.<STATE> = {...};` assignments.
func windowStateSource(markup string) []payload {
	return submatches(windowStatePattern, markup, func(s string) string { return s })
}

// dataAttributeSource reads entity-escaped JSON from data-track(s)
// attributes, double or single quoted.
func dataAttributeSource(markup string) []payload {
	var payloads []payload
	for _, idx := range dataAttributePattern.FindAllStringSubmatchIndex(markup, -1) {
		start, end := idx[2], idx[3]
		if start < 0 {
			start, end = idx[4], idx[5]
		}
		payloads = append(payloads, payload{
			offset: idx[0],
			raw:    html.UnescapeString(markup[start:end]),
		})
	}
	return payloads
}

// jsonLDSource reads schema.org structured data blocks.
func jsonLDSource(markup string) []payload {
	return submatches(jsonLDPattern, markup, strings.TrimSpace)
}
