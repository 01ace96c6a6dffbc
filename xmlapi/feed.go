package xmlapi

import (
	"encoding/xml"
	"strconv"
	"strings"
)

//////////////////////////////////////////////////

type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type Author struct {
	Name string `xml:"name"`
	URI  string `xml:"uri"`
}

type MediaThumbnail struct {
	URL    string `xml:"url,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type MediaStatistics struct {
	Views int64 `xml:"views,attr"`
}

type MediaCommunity struct {
	Statistics *MediaStatistics `xml:"statistics,omitempty"`
}

type MediaGroup struct {
	XMLName xml.Name `xml:"group"`

	Title       string          `xml:"title"`
	Thumbnail   *MediaThumbnail `xml:"thumbnail,omitempty"`
	Description string          `xml:"description"`
	Community   *MediaCommunity `xml:"community,omitempty"`
}

//////////////////////////////////////////////////

type ChannelFeedEntry struct {
	ID string `xml:"id"`

	VideoID   string `xml:"videoId"`
	ChannelID string `xml:"channelId"`

	Title     string  `xml:"title"`
	Links     []Link  `xml:"link,omitempty"`
	Author    *Author `xml:"author,omitempty"`
	Published string  `xml:"published"`
	Updated   string  `xml:"updated"`

	MediaGroups []MediaGroup `xml:"group,omitempty"`
}

// ChannelFeed is the Atom document served at
// "https://www.youtube.com/feeds/videos.xml?channel_id=...".
type ChannelFeed struct {
	XMLName xml.Name `xml:"feed"`

	ChannelID string  `xml:"channelId"`
	Links     []Link  `xml:"link,omitempty"`
	Title     string  `xml:"title"`
	Author    *Author `xml:"author,omitempty"`
	Published string  `xml:"published"`

	Entries []ChannelFeedEntry `xml:"entry,omitempty"`
}

// FeedChannel summarizes the channel a feed belongs to.
type FeedChannel struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published int64  `json:"published"` // (unix timestamp; in milliseconds)
}

func (f *ChannelFeed) Channel() FeedChannel {
	if f == nil {
		return FeedChannel{}
	}

	ch := FeedChannel{
		ID:    f.ChannelID,
		Title: f.Title,
	}
	ch.Published, _ = parseDate(f.Published)

	if f.Author != nil {
		if ch.Title == "" {
			ch.Title = f.Author.Name
		}
		if isValidURL(f.Author.URI) {
			ch.URL = f.Author.URI
		}
	}
	if ch.URL == "" {
		for _, link := range f.Links {
			if strings.EqualFold(link.Rel, "alternate") && isValidURL(link.Href) {
				ch.URL = link.Href
				break
			}
		}
	}

	if ch.ID == "" {
		for _, entry := range f.Entries {
			if IsValidChannelID(entry.ChannelID) {
				ch.ID = entry.ChannelID
				break
			}
		}
	}

	return ch
}

type ChannelFeedVideo struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Views        int64  `json:"views"`

	Published int64 `json:"published"` // (unix timestamp; in milliseconds)
	Updated   int64 `json:"updated"`   // (unix timestamp; in milliseconds)
}

func (vid ChannelFeedVideo) String() string {
	var s strings.Builder

	s.WriteString("{ChannelFeedVideo:[id:")
	s.WriteString(strconv.Quote(vid.ID))
	s.WriteString(", channelID:")
	s.WriteString(strconv.Quote(vid.ChannelID))
	s.WriteString("]}")

	return s.String()
}

// Videos lists the feed entries in document order (newest first, as served
// by YouTube), skipping entries without a video ID and duplicates.
func (f *ChannelFeed) Videos() (videos []ChannelFeedVideo) {
	videos = make([]ChannelFeedVideo, 0)

	if f == nil || len(f.Entries) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(f.Entries))
	for _, entry := range f.Entries {
		videoID := entry.VideoID
		if videoID == "" {
			continue
		}
		if _, ok := seen[videoID]; ok {
			continue
		}
		seen[videoID] = struct{}{}

		published, _ := parseDate(entry.Published)
		updated, _ := parseDate(entry.Updated)

		channelID := entry.ChannelID
		if channelID == "" {
			channelID = f.ChannelID
		}

		vid := ChannelFeedVideo{
			ID:        videoID,
			ChannelID: channelID,

			Title: entry.Title,
			URL:   "https://www.youtube.com/watch?v=" + videoID,

			Published: published,
			Updated:   updated,
		}

		for _, link := range entry.Links {
			if link.Href == "" || !strings.EqualFold(link.Rel, "alternate") || !isValidURL(link.Href) {
				continue
			}

			vid.URL = link.Href
			break
		}

		for _, mg := range entry.MediaGroups {
			if vid.Description == "" {
				vid.Description = mg.Description
			}
			if mg.Community != nil && mg.Community.Statistics != nil {
				vid.Views = mg.Community.Statistics.Views
			}
			if vid.ThumbnailURL == "" && mg.Thumbnail != nil && isValidURL(mg.Thumbnail.URL) {
				vid.ThumbnailURL = mg.Thumbnail.URL
			}
		}

		videos = append(videos, vid)
	}

	return
}

func ParseChannelFeed(b []byte) (*ChannelFeed, error) {
	if len(b) == 0 {
		return nil, EmptyDocument
	}

	feed := &ChannelFeed{}
	if err := xml.Unmarshal(b, feed); err != nil {
		return nil, err
	}

	return feed, nil
}
