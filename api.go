package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

//////////////////////////////////////////////////

// APILookup looks records up through the YouTube Data API (v3). Each lookup
// is a single list call costing one quota unit.
type APILookup struct {
	service *youtube.Service
}

var (
	NilService = errors.New("service is nil")
)

func NewAPILookup(service *youtube.Service) (*APILookup, error) {
	if service == nil {
		return nil, NilService
	}

	return &APILookup{service: service}, nil
}

var channelParts = []string{"snippet"}
var videoParts = []string{"snippet"}

func (l *APILookup) ChannelByID(ctx context.Context, channelID string) (*Channel, error) {
	if channelID == "" || !IsValidChannelID(channelID) {
		return nil, fmt.Errorf("%w: %w", ChannelNotFound, InvalidChannelID)
	}

	call := l.service.Channels.List(channelParts)
	call.Context(ctx)
	call.Id(channelID)

	resp, err := call.Do()
	if err != nil {
		return nil, apiError("youtube.ChannelsService.List", ChannelNotFound, err)
	}

	for _, item := range resp.Items {
		if item.Id != channelID {
			continue
		}

		return channelFromAPI(item), nil
	}

	return nil, ChannelNotFound
}

func (l *APILookup) ChannelByHandle(ctx context.Context, handle string) (*Channel, error) {
	handle = strings.TrimPrefix(handle, "@")
	if !IsValidHandle(handle) {
		return nil, fmt.Errorf("%w: %w", ChannelNotFound, InvalidHandle)
	}

	call := l.service.Channels.List(channelParts)
	call.Context(ctx)

	resp, err := call.Do(googleapi.QueryParameter("forHandle", "@"+handle))
	if err != nil {
		return nil, apiError("youtube.ChannelsService.List", ChannelNotFound, err)
	}

	for _, item := range resp.Items {
		if item.Id == "" {
			continue
		}

		ch := channelFromAPI(item)
		if ch.Handle == "" {
			ch.Handle = handle
		}

		return ch, nil
	}

	return nil, ChannelNotFound
}

func (l *APILookup) VideoByID(ctx context.Context, videoID string) (*Video, error) {
	if videoID == "" || !IsValidVideoID(videoID) {
		return nil, fmt.Errorf("%w: %w", VideoNotFound, InvalidVideoID)
	}

	call := l.service.Videos.List(videoParts)
	call.Context(ctx)
	call.Id(videoID)

	resp, err := call.Do()
	if err != nil {
		return nil, apiError("youtube.VideosService.List", VideoNotFound, err)
	}

	for _, item := range resp.Items {
		if item.Id != videoID || item.Snippet == nil {
			continue
		}

		return &Video{
			ID:        item.Id,
			ChannelID: item.Snippet.ChannelId,
			Title:     item.Snippet.Title,
			Author:    item.Snippet.ChannelTitle,
			Source:    "api",
		}, nil
	}

	return nil, VideoNotFound
}

//////////////////////////////////////////////////

// apiError maps an HTTP 404 from the API to notFound; anything else is
// returned wrapped (and becomes a service error).
func apiError(op string, notFound error, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return notFound
	}

	return fmt.Errorf("%s: %w", op, err)
}

func channelFromAPI(item *youtube.Channel) *Channel {
	ch := &Channel{
		ID:     item.Id,
		URL:    "https://www.youtube.com/channel/" + item.Id,
		Source: "api",
	}

	if s := item.Snippet; s != nil {
		ch.Title = s.Title
		ch.Description = s.Description
		ch.Country = s.Country
		ch.Handle = strings.TrimPrefix(s.CustomUrl, "@")

		if t, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			ch.PublishedAt = t.UnixMilli()
		}

		if s.Thumbnails != nil && s.Thumbnails.Default != nil {
			ch.ThumbnailURL = s.Thumbnails.Default.Url
		}
	}

	return ch
}
