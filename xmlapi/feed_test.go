package xmlapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <link rel="self" href="http://www.youtube.com/feeds/videos.xml?channel_id=UCSJ4gkVC6NrvII8umztf0Ow"/>
 <id>yt:channel:SJ4gkVC6NrvII8umztf0Ow</id>
 <yt:channelId>UCSJ4gkVC6NrvII8umztf0Ow</yt:channelId>
 <title>Lofi Girl</title>
 <link rel="alternate" href="https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow"/>
 <author>
  <name>Lofi Girl</name>
  <uri>https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow</uri>
 </author>
 <published>2015-03-03T12:12:46+00:00</published>
 <entry>
  <id>yt:video:jfKfPfyJRdk</id>
  <yt:videoId>jfKfPfyJRdk</yt:videoId>
  <yt:channelId>UCSJ4gkVC6NrvII8umztf0Ow</yt:channelId>
  <title>lofi hip hop radio</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=jfKfPfyJRdk"/>
  <published>2022-07-12T12:12:29+00:00</published>
  <updated>2024-01-01T00:00:00+00:00</updated>
  <media:group>
   <media:title>lofi hip hop radio</media:title>
   <media:thumbnail url="https://i4.ytimg.com/vi/jfKfPfyJRdk/hqdefault.jpg" width="480" height="360"/>
   <media:description>beats to relax/study to</media:description>
   <media:community>
    <media:statistics views="123456"/>
   </media:community>
  </media:group>
 </entry>
 <entry>
  <yt:videoId>jfKfPfyJRdk</yt:videoId>
  <title>duplicate</title>
 </entry>
 <entry>
  <title>no video id</title>
 </entry>
</feed>`

func TestParseChannelFeed(t *testing.T) {
	feed, err := ParseChannelFeed([]byte(channelFeed))
	require.NoError(t, err)

	ch := feed.Channel()
	assert.Equal(t, "UCSJ4gkVC6NrvII8umztf0Ow", ch.ID)
	assert.Equal(t, "Lofi Girl", ch.Title)
	assert.Equal(t, "https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow", ch.URL)
	assert.NotZero(t, ch.Published)

	videos := feed.Videos()
	require.Len(t, videos, 1)

	vid := videos[0]
	assert.Equal(t, "jfKfPfyJRdk", vid.ID)
	assert.Equal(t, "UCSJ4gkVC6NrvII8umztf0Ow", vid.ChannelID)
	assert.Equal(t, "https://www.youtube.com/watch?v=jfKfPfyJRdk", vid.URL)
	assert.Equal(t, "https://i4.ytimg.com/vi/jfKfPfyJRdk/hqdefault.jpg", vid.ThumbnailURL)
	assert.Equal(t, "beats to relax/study to", vid.Description)
	assert.Equal(t, int64(123456), vid.Views)
	assert.Greater(t, vid.Updated, vid.Published)
}

func TestParseChannelFeedEmpty(t *testing.T) {
	_, err := ParseChannelFeed(nil)
	assert.ErrorIs(t, err, EmptyDocument)

	var feed *ChannelFeed
	assert.Empty(t, feed.Videos())
	assert.Equal(t, FeedChannel{}, feed.Channel())
}
