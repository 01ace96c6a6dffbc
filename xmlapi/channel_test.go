package xmlapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelPage = `<!DOCTYPE html><html lang="en"><head>
<script>var ytcfg = {"channelId":"UCignored_ignored_ignored"};</script>
<meta name="title" content="Lofi Girl - YouTube">
<meta property="og:title" content="Lofi Girl">
<link rel="alternate" type="application/rss+xml" title="RSS" href="https://www.youtube.com/feeds/videos.xml?channel_id=UCSJ4gkVC6NrvII8umztf0Ow&amp;x=1">
<link rel="canonical" href="https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow">
</head><body><span itemprop="author"><link itemprop="url" href="http://www.youtube.com/@LofiGirl"></span></body></html>`

func TestParseChannelIndex(t *testing.T) {
	index, err := ParseChannelIndex([]byte(channelPage))
	require.NoError(t, err)

	assert.Equal(t, "UCSJ4gkVC6NrvII8umztf0Ow", index.ChannelID)
	assert.Equal(t, "LofiGirl", index.Handle)
	assert.Equal(t, "Lofi Girl", index.Title)
}

func TestParseChannelIndexFromRSSLinkOnly(t *testing.T) {
	page := `<html><head><link rel="alternate" type="application/rss+xml" href="https://www.youtube.com/feeds/videos.xml?channel_id=UC123456789"></head></html>`

	index, err := ParseChannelIndex([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "UC123456789", index.ChannelID)
	assert.Empty(t, index.Handle)
}

func TestParseChannelIndexMissingID(t *testing.T) {
	_, err := ParseChannelIndex([]byte(`<html><head><link rel="canonical" href="https://www.youtube.com/watch?v=abc"></head></html>`))
	assert.ErrorIs(t, err, ChannelIDNotFound)

	_, err = ParseChannelIndex(nil)
	assert.ErrorIs(t, err, EmptyDocument)
}

func TestIsValidHandle(t *testing.T) {
	for _, s := range []string{"LofiGirl", "some.handle", "a_b-c", "日本語チャンネル"} {
		assert.True(t, IsValidHandle(s), s)
	}
	for _, s := range []string{"", "ab", "with space", "a/b", "q?x=1", "@twice", "0123456789012345678901234567890"} {
		assert.False(t, IsValidHandle(s), s)
	}
}

func TestIsValidIdentifiers(t *testing.T) {
	assert.True(t, IsValidChannelID("UCSJ4gkVC6NrvII8umztf0Ow"))
	assert.False(t, IsValidChannelID("UC$bad"))
	assert.True(t, IsValidVideoID("dQw4w9WgXcQ"))
	assert.False(t, IsValidVideoID("dQw4w9WgXcQ/extra"))
	assert.False(t, IsValidVideoID("abc"))
}
