package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateBlobsNextData(t *testing.T) {
	markup := `<html><head><script id="__NEXT_DATA__" type="application/json">
		{"props":{"pageProps":{"title":"Fish &amp; Chips"}}}
	</script></head></html>`

	blobs := LocateBlobs(markup)
	require.Len(t, blobs, 1)
	assert.Equal(t, KindObject, blobs[0].Kind)
	assert.Equal(t, []string{"props"}, blobs[0].Object.Keys())
}

func TestLocateBlobsWindowState(t *testing.T) {
	markup := `<script>
		window.__PRELOADED_STATE__ = {"tracks":[{"name":"A","artist":"B"}]};
		window.__UNRELATED__ = {"name":"ignored","artist":"x"};
		window.__INITIAL_STATE__={"user":null};
	</script>`

	blobs := LocateBlobs(markup)
	require.Len(t, blobs, 2)
	assert.Equal(t, []string{"tracks"}, blobs[0].Object.Keys())
	assert.Equal(t, []string{"user"}, blobs[1].Object.Keys())
}

func TestLocateBlobsDataAttributes(t *testing.T) {
	markup := `<ul>
		<li data-track="{&quot;name&quot;:&quot;One&quot;,&quot;artist&quot;:&quot;A&quot;}">One</li>
		<li data-track='{"name":"Two","artist":"B"}'>Two</li>
		<div data-tracks="[{&quot;name&quot;:&quot;Three&quot;,&quot;bpm&quot;:120}]"></div>
		<li data-track="not json">skip</li>
	</ul>`

	blobs := LocateBlobs(markup)
	require.Len(t, blobs, 3)
	assert.Equal(t, KindObject, blobs[0].Kind)
	assert.Equal(t, KindObject, blobs[1].Kind)
	assert.Equal(t, KindArray, blobs[2].Kind)

	name, _ := blobs[1].Object.Get("name")
	assert.Equal(t, "Two", name.Text)
}

func TestLocateBlobsJSONLD(t *testing.T) {
	markup := `<script type="application/ld+json">{"@type":"MusicPlaylist","name":"Peak"}</script>`

	blobs := LocateBlobs(markup)
	require.Len(t, blobs, 1)
	assert.True(t, blobs[0].Object.Has("@type"))
}

func TestLocateBlobsSkipsMalformedMatches(t *testing.T) {
	markup := `
		<script id="__NEXT_DATA__">{"broken": </script>
		<li data-track="{&quot;name&quot;:&quot;Good&quot;,&quot;artist&quot;:&quot;A&quot;}"></li>`

	blobs := LocateBlobs(markup)
	require.Len(t, blobs, 1)
	name, _ := blobs[0].Object.Get("name")
	assert.Equal(t, "Good", name.Text)
}

func TestLocateBlobsOrderOfAppearance(t *testing.T) {
	markup := `
		<li data-track='{"first":true}'></li>
		<script id="__NEXT_DATA__">{"second":true}</script>
		<script>window.__INITIAL_STATE__ = {"third":true};</script>`

	blobs := LocateBlobs(markup)
	require.Len(t, blobs, 3)
	assert.True(t, blobs[0].Object.Has("first"))
	assert.True(t, blobs[1].Object.Has("second"))
	assert.True(t, blobs[2].Object.Has("third"))
}

func TestLocateBlobsNoMatch(t *testing.T) {
	for _, markup := range []string{"", "<html><body>nothing here</body></html>"} {
		blobs := LocateBlobs(markup)
		assert.NotNil(t, blobs)
		assert.Empty(t, blobs)
	}
}
