package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	ytplayer "github.com/kkdai/youtube/v2"

	"github.com/rubpy/crawly-channel-youtube/xmlapi"
	"github.com/rubpy/crawly/cclient"
)

//////////////////////////////////////////////////

// VideoPlayer fetches video metadata the way the YouTube web player does.
// *ytplayer.Client (github.com/kkdai/youtube/v2) satisfies it.
type VideoPlayer interface {
	GetVideoContext(ctx context.Context, url string) (*ytplayer.Video, error)
}

// FeedLookup looks records up without an API key: channels through their
// public XML feed and HTML page, videos through the web player.
type FeedLookup struct {
	client cclient.Client
	player VideoPlayer
}

type FeedOption func(l *FeedLookup)

func WithFeedClient(client cclient.Client) FeedOption {
	return func(l *FeedLookup) {
		l.client = client
	}
}

func WithVideoPlayer(player VideoPlayer) FeedOption {
	return func(l *FeedLookup) {
		l.player = player
	}
}

var (
	NilClient = errors.New("client is nil")
)

// UnexpectedStatus is the HTTP status of a failed page fetch.
type UnexpectedStatus int

func (s UnexpectedStatus) Error() string {
	return "unexpected HTTP status " + strconv.Itoa(int(s))
}

// Pages larger than this are cut off; the tags of interest sit in <head>.
const maxPageSize = 4 << 20

func NewFeedLookup(logger *slog.Logger, opts ...FeedOption) (*FeedLookup, error) {
	l := &FeedLookup{}
	for _, opt := range opts {
		opt(l)
	}

	if l.client == nil {
		if logger != nil {
			logger = logger.WithGroup("client")
		}

		cl, err := cclient.NewClient(cclient.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("cclient.NewClient: %w", err)
		}
		l.client = cl
	}

	if l.player == nil {
		l.player = &ytplayer.Client{}
	}

	return l, nil
}

//////////////////////////////////////////////////

func (l *FeedLookup) ChannelByID(ctx context.Context, channelID string) (*Channel, error) {
	feed, err := l.FetchChannelFeed(ctx, channelID)
	if err != nil {
		return nil, err
	}

	fc := feed.Channel()
	ch := &Channel{
		ID:          fc.ID,
		Title:       fc.Title,
		URL:         fc.URL,
		PublishedAt: fc.Published,
		Source:      "feed",
	}
	if ch.ID == "" {
		ch.ID = channelID
	}

	return ch, nil
}

func (l *FeedLookup) ChannelByHandle(ctx context.Context, handle string) (*Channel, error) {
	if !IsValidHandle(handle) {
		return nil, fmt.Errorf("%w: %w", ChannelNotFound, InvalidHandle)
	}

	index, err := l.FetchChannelIndex(ctx, "https://www.youtube.com/@"+url.PathEscape(handle))
	if err != nil {
		return nil, err
	}

	ch := &Channel{
		ID:     index.ChannelID,
		Handle: index.Handle,
		Title:  index.Title,
		URL:    "https://www.youtube.com/channel/" + index.ChannelID,
		Source: "feed",
	}
	if ch.Handle == "" {
		ch.Handle = handle
	}

	return ch, nil
}

func (l *FeedLookup) VideoByID(ctx context.Context, videoID string) (*Video, error) {
	if videoID == "" || !IsValidVideoID(videoID) {
		return nil, fmt.Errorf("%w: %w", VideoNotFound, InvalidVideoID)
	}

	if l.player == nil {
		return nil, NilClient
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vid, err := l.player.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, playerError(err)
	}

	return &Video{
		ID:        vid.ID,
		ChannelID: vid.ChannelID,
		Title:     vid.Title,
		Author:    vid.Author,
		Source:    "player",
	}, nil
}

// playerError maps errors of the web player client meaning "no such
// (visible) video" to VideoNotFound.
func playerError(err error) error {
	var playErr ytplayer.ErrPlayabiltyStatus
	var playErrPtr *ytplayer.ErrPlayabiltyStatus

	switch {
	case errors.Is(err, ytplayer.ErrVideoPrivate),
		errors.Is(err, ytplayer.ErrInvalidCharactersInVideoID),
		errors.Is(err, ytplayer.ErrVideoIDMinLength):
		return fmt.Errorf("%w: %w", VideoNotFound, err)

	case errors.As(err, &playErr) && playErr.Status == "ERROR",
		errors.As(err, &playErrPtr) && playErrPtr.Status == "ERROR":
		return fmt.Errorf("%w: %w", VideoNotFound, err)
	}

	return fmt.Errorf("youtube.Client.GetVideoContext: %w", err)
}

//////////////////////////////////////////////////

func (l *FeedLookup) FetchChannelFeed(ctx context.Context, channelID string) (feed *xmlapi.ChannelFeed, err error) {
	if channelID == "" || !IsValidChannelID(channelID) {
		err = fmt.Errorf("%w: %w", ChannelNotFound, InvalidChannelID)
		return
	}

	feedURL := &url.URL{
		Scheme: "https",
		Host:   "www.youtube.com",
		Path:   "feeds/videos.xml",
	}
	q := feedURL.Query()
	q.Set("channel_id", channelID)
	q.Set(nonceKey, generateNonce())
	feedURL.RawQuery = q.Encode()

	body, err := l.fetch(ctx, feedURL.String(), ChannelNotFound)
	if err != nil {
		return nil, err
	}

	feed, err = xmlapi.ParseChannelFeed(body)
	if err != nil {
		return nil, fmt.Errorf("xmlapi.ParseChannelFeed: %w", err)
	}

	return feed, nil
}

func (l *FeedLookup) FetchChannelIndex(ctx context.Context, channelURL string) (index *xmlapi.ChannelIndex, err error) {
	if channelURL == "" || !IsValidChannelURL(channelURL) {
		err = InvalidChannelURL
		return
	}

	body, err := l.fetch(ctx, channelURL, ChannelNotFound)
	if err != nil {
		return nil, err
	}

	index, err = xmlapi.ParseChannelIndex(body)
	if err != nil {
		return nil, fmt.Errorf("xmlapi.ParseChannelIndex: %w", err)
	}

	return index, nil
}

// fetch GETs rawURL; a 404 response yields notFound.
func (l *FeedLookup) fetch(ctx context.Context, rawURL string, notFound error) ([]byte, error) {
	if l.client == nil {
		return nil, NilClient
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	resp, err := l.client.Request(ctx, "GET", rawURL, nil, http.Header{
		"Cookie": {generateConsentCookie()},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, UnexpectedStatus(resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
}
