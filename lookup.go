package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

//////////////////////////////////////////////////

// Lookup is a remote source of channel and video records. Implementations
// return an error wrapping ChannelNotFound/VideoNotFound when the platform
// has no such record; any other error is a service failure.
type Lookup interface {
	ChannelByID(ctx context.Context, channelID string) (*Channel, error)
	ChannelByHandle(ctx context.Context, handle string) (*Channel, error)
	VideoByID(ctx context.Context, videoID string) (*Video, error)
}

type LookupKind uint

const (
	LookupChannelByID LookupKind = (iota + 1)
	LookupChannelByHandle
	LookupVideoByID
)

func (lk LookupKind) String() string {
	switch lk {
	case LookupChannelByID:
		return "channel-id"
	case LookupChannelByHandle:
		return "channel-handle"
	case LookupVideoByID:
		return "video-id"
	}

	return ""
}

//////////////////////////////////////////////////

var (
	NotFound        = errors.New("not found")
	ChannelNotFound = fmt.Errorf("channel %w", NotFound)
	VideoNotFound   = fmt.Errorf("video %w", NotFound)

	// A video was found, but the channel it reports as its parent was not.
	OrphanedVideo = errors.New("video parent channel not found")

	NilLookup = errors.New("lookup is nil")
)

// ServiceError is a lookup failure other than "not found" (transport,
// authorization, quota). Results learned from a ServiceError are never cached.
type ServiceError struct {
	Lookup LookupKind
	ID     string
	Err    error
}

func (e *ServiceError) Error() string {
	return "youtube: " + e.Lookup.String() + " lookup of " + strconv.Quote(e.ID) + " failed: " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsServiceError reports whether err is (or wraps) a *ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// classifyLookupError turns an error returned by a Lookup into either a
// not-found sentinel or a *ServiceError.
func classifyLookupError(lookup LookupKind, id string, err error) error {
	if err == nil || errors.Is(err, NotFound) || IsServiceError(err) {
		return err
	}

	return &ServiceError{Lookup: lookup, ID: id, Err: err}
}
