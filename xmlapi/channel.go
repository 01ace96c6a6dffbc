package xmlapi

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"
)

//////////////////////////////////////////////////

// ChannelIndex is what can be learned about a channel from the link and meta
// tags of its HTML page (e.g. "https://www.youtube.com/@handle").
type ChannelIndex struct {
	ChannelID string
	Handle    string // (without the leading "@")
	Title     string
}

func (res ChannelIndex) String() string {
	var s strings.Builder

	s.WriteString("{ChannelIndex:[channelID:")
	s.WriteString(strconv.Quote(res.ChannelID))
	s.WriteString(", handle:")
	s.WriteString(strconv.Quote(res.Handle))
	s.WriteString("]}")

	return s.String()
}

var (
	EmptyDocument     = errors.New("document is empty")
	ChannelIDNotFound = errors.New("channel ID not found in document")
)

func ParseChannelIndex(b []byte) (*ChannelIndex, error) {
	if len(b) == 0 {
		return nil, EmptyDocument
	}

	index := &ChannelIndex{}
	for _, tag := range scanHeadTags(b) {
		switch tag.Atom {
		case atom.Link:
			rel := strings.ToLower(tag.attr("rel"))
			itemprop := strings.ToLower(tag.attr("itemprop"))
			href := tag.attr("href")

			if rel == "canonical" || itemprop == "url" {
				if s, ok := valueAfter(href, "channel/", "/?#"); ok && index.ChannelID == "" && IsValidChannelID(s) {
					index.ChannelID = s
				}
				if s, ok := valueAfter(href, "/@", "/?#"); ok && index.Handle == "" && IsValidHandle(s) {
					index.Handle = s
				}
			} else if rel == "alternate" && strings.Contains(strings.ToLower(tag.attr("type")), "rss") {
				if s, ok := valueAfter(href, "channel_id=", "&#"); ok && index.ChannelID == "" && IsValidChannelID(s) {
					index.ChannelID = s
				}
			}

		case atom.Meta:
			content := tag.attr("content")

			switch {
			case strings.EqualFold(tag.attr("itemprop"), "identifier"), strings.EqualFold(tag.attr("itemprop"), "channelId"):
				if index.ChannelID == "" && IsValidChannelID(content) {
					index.ChannelID = content
				}

			case strings.EqualFold(tag.attr("property"), "og:title"):
				if content != "" {
					index.Title = content
				}

			case strings.EqualFold(tag.attr("name"), "title"):
				if index.Title == "" {
					index.Title = content
				}
			}
		}
	}

	if index.ChannelID == "" {
		return nil, ChannelIDNotFound
	}

	return index, nil
}

//////////////////////////////////////////////////

// Checks (roughly) if the given string is a valid YouTube channel ID.
func IsValidChannelID(s string) bool {
	return isIdentifier(s, 6, 64)
}

// Checks (roughly) if the given string is a valid YouTube handle (without
// the leading "@"). Handles are 3-30 characters of letters, digits, and
// ".", "-", "_"; non-latin letters are allowed too.
func IsValidHandle(s string) bool {
	n := len([]rune(s))
	if n < 3 || n > 30 {
		return false
	}

	for _, r := range s {
		switch {
		case r == '.' || r == '-' || r == '_' || r == '·':
		case r <= ' ' || strings.ContainsRune("/?#&=@%\"'<>\\", r):
			return false
		}
	}

	return true
}
