package youtube

import (
	"strconv"
	"strings"
)

//////////////////////////////////////////////////

type Channel struct {
	ID           string `json:"id"`
	Handle       string `json:"handle,omitempty"` // (without the leading "@")
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Country      string `json:"country,omitempty"`
	PublishedAt  int64  `json:"published_at,omitempty"` // (unix timestamp; in milliseconds)

	// Lookup implementation the record came from ("api", "feed").
	Source string `json:"source,omitempty"`
}

func (ch Channel) String() string {
	var s strings.Builder

	s.WriteString("{Channel:[id:")
	s.WriteString(strconv.Quote(ch.ID))
	s.WriteString(", handle:")
	s.WriteString(strconv.Quote(ch.Handle))
	s.WriteString("]}")

	return s.String()
}

type Video struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`

	Source string `json:"source,omitempty"`
}

//////////////////////////////////////////////////

// FieldConflict records a field both records had a (different) value for.
type FieldConflict struct {
	Field     string
	Kept      string
	Discarded string
}

// MergeChannels reconciles two records of the same channel field by field:
// empty fields of primary are taken from secondary, and where both carry
// different values the primary one is kept and the clash reported.
func MergeChannels(primary, secondary Channel) (Channel, []FieldConflict) {
	merged := primary
	var conflicts []FieldConflict

	mergeString := func(field string, dst *string, src string) {
		switch {
		case src == "" || *dst == src:
		case *dst == "":
			*dst = src
		default:
			conflicts = append(conflicts, FieldConflict{Field: field, Kept: *dst, Discarded: src})
		}
	}

	mergeString("id", &merged.ID, secondary.ID)
	mergeString("handle", &merged.Handle, secondary.Handle)
	mergeString("title", &merged.Title, secondary.Title)
	mergeString("description", &merged.Description, secondary.Description)
	mergeString("url", &merged.URL, secondary.URL)
	mergeString("thumbnail_url", &merged.ThumbnailURL, secondary.ThumbnailURL)
	mergeString("country", &merged.Country, secondary.Country)
	mergeString("source", &merged.Source, secondary.Source)

	switch {
	case secondary.PublishedAt == 0 || merged.PublishedAt == secondary.PublishedAt:
	case merged.PublishedAt == 0:
		merged.PublishedAt = secondary.PublishedAt
	default:
		conflicts = append(conflicts, FieldConflict{
			Field:     "published_at",
			Kept:      strconv.FormatInt(merged.PublishedAt, 10),
			Discarded: strconv.FormatInt(secondary.PublishedAt, 10),
		})
	}

	return merged, conflicts
}
