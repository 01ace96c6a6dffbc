package youtube

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"github.com/rubpy/crawly-channel-youtube/xmlapi"
)

//////////////////////////////////////////////////

var (
	InvalidChannelID  = errors.New("invalid channel ID")
	InvalidChannelURL = errors.New("invalid channel URL")
	InvalidHandle     = errors.New("invalid handle")
	InvalidVideoID    = errors.New("invalid video ID")
)

func IsValidChannelID(s string) bool  { return xmlapi.IsValidChannelID(s) }
func IsValidChannelURL(s string) bool { return isValidURL(s) }
func IsValidHandle(s string) bool     { return xmlapi.IsValidHandle(s) }
func IsValidVideoID(s string) bool    { return xmlapi.IsValidVideoID(s) }

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	if u.Scheme == "" {
		return false
	}

	return true
}

// URL query param key used in conjuction with value returned by generateNonce.
var nonceKey = "_h"

// Generates a time-based unique string, generally used for signing HTTP
// requests (to bypass caching mechanisms).
func generateNonce() string {
	return fmt.Sprintf("%016x", uniqueUint64())
}

func uniqueUint64() uint64 {
	v := uint64(time.Now().UnixMilli())
	r := uint64(rand.Uint32()) & 0x3fffff
	v = (v << 22) | r

	return v
}

func generateConsentCookie() string {
	return "SOCS=CAESEwgDEgk0ODE3Nzk3MjQaAmVuIAEaBgiA_LyaBg"
}
