package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly-channel-youtube/xmlapi"
	"github.com/rubpy/crawly/clog"
)

//////////////////////////////////////////////////

type EntityData struct {
	Channel     *Channel  `json:"channel"`
	LastRefresh time.Time `json:"last_refresh"`

	// Newest first; only filled if the tracker has a FeedLookup.
	Uploads       []xmlapi.ChannelFeedVideo `json:"uploads"`
	LastFeedFetch time.Time                 `json:"last_feed_fetch"`
}

var (
	ExceededRefreshTimeout = errors.New("exceeded refresh timeout")
)

func (t *Tracker) entityHandler(ctx context.Context, entity *crawly.Entity, result *crawly.TrackingResult) error {
	ref, ok := entity.Handle.(Reference)
	if !ok || !ref.Valid() {
		return crawly.InvalidHandle
	}

	data, _ := entity.Data.(EntityData)
	defer func() {
		entity.Data = data
	}()

	if ref.kind != KindRawID {
		return crawly.InvalidHandle
	}

	settings := t.loadSettings()
	max := func(min time.Duration, v time.Duration) time.Duration {
		if v < min {
			return min
		}

		return v
	}

	minimumRefreshDelay := max(1*time.Second, settings.MinimumRefreshDelay)
	minimumFetchChannelFeedDelay := max(1*time.Second, settings.MinimumFetchChannelFeedDelay)
	refreshTimeout := max(0*time.Second, settings.RefreshTimeout)

	maximumUploads := settings.MaximumUploads
	if maximumUploads < 0 {
		maximumUploads = 0
	}

	var cancel context.CancelFunc
	if refreshTimeout > 0 {
		ctx, cancel = context.WithTimeoutCause(ctx, refreshTimeout, ExceededRefreshTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	channelID := ref.value

	if data.Channel == nil || time.Since(data.LastRefresh) >= minimumRefreshDelay {
		lp := clog.Params{
			Message: "refreshChannel",
			Level:   slog.LevelDebug,

			Values: clog.ParamGroup{
				"channelID": channelID,
			},
		}

		var ch *Channel
		var err error
		if data.Channel == nil {
			ch, err = t.resolver.Channel(ctx, channelID)
		} else {
			ch, err = t.resolver.RefreshChannel(ctx, channelID)
		}

		if err == nil {
			if data.Channel != nil {
				merged, conflicts := MergeChannels(*ch, *data.Channel)
				ch = &merged

				if len(conflicts) > 0 {
					lp.Set("conflicts", conflicts)
				}
			}

			data.Channel = ch
			data.LastRefresh = time.Now()
		} else {
			err = fmt.Errorf("Resolver.Channel: %w", err)
		}

		lp.Err = err
		t.Log(ctx, lp)

		if err != nil {
			return err
		}
	}

	if t.feed != nil && maximumUploads > 0 && time.Since(data.LastFeedFetch) >= minimumFetchChannelFeedDelay {
		lp := clog.Params{
			Message: "fetchChannelFeed",
			Level:   slog.LevelDebug,

			Values: clog.ParamGroup{
				"channelID": channelID,
			},
		}

		feed, err := t.feed.FetchChannelFeed(ctx, channelID)
		if err == nil {
			uploads := feed.Videos()
			if len(uploads) > maximumUploads {
				uploads = uploads[:maximumUploads]
			}

			data.Uploads = uploads
			data.LastFeedFetch = time.Now()

			lp.Set("uploads", len(uploads))
		} else {
			err = fmt.Errorf("FeedLookup.FetchChannelFeed: %w", err)
		}

		lp.Err = err
		t.Log(ctx, lp)

		if err != nil {
			return err
		}
	}

	return nil
}
