package youtube

import (
	"net/url"
	"strings"

	"github.com/rubpy/crawly-channel-youtube/xmlapi"
)

//////////////////////////////////////////////////

// Hosts (lower-cased, without "www.") serving YouTube channel and video pages.
var platformHosts = map[string]struct{}{
	"youtube.com":          {},
	"m.youtube.com":        {},
	"music.youtube.com":    {},
	"youtu.be":             {},
	"youtube-nocookie.com": {},
}

// First path segments followed by a video ID (e.g. "/shorts/<id>").
var videoPathPrefixes = map[string]struct{}{
	"shorts": {},
	"embed":  {},
	"live":   {},
	"v":      {},
	"e":      {},
}

// Classify maps a user-supplied string (a bare ID, an "@handle", or a URL) to
// a Reference without any network access. fallbackPlatform is assumed for
// strings that are not URLs. Classify never fails; input it cannot place is
// returned as a KindUnknown reference carrying the (trimmed) input.
func Classify(raw string, fallbackPlatform string) Reference {
	s := strings.TrimSpace(raw)
	platform := strings.ToLower(strings.TrimSpace(fallbackPlatform))

	if !strings.Contains(s, "/") {
		if platform == Platform && strings.HasPrefix(s, "@") && !strings.Contains(s, "?") && len(s) > 1 {
			return HumanHandle(s)
		}

		return UnknownReference(s, platform)
	}

	u, ok := parseLooseURL(s)
	if !ok {
		return UnknownReference(s, platform)
	}

	host := normalizeHostname(u)
	if host == "" {
		return UnknownReference(s, platform)
	}
	if !isPlatformHost(host) {
		return UnknownReference(s, host)
	}

	segments := pathSegments(u.Path)
	if host != "youtu.be" && len(segments) > 0 {
		first := segments[0]

		if strings.HasPrefix(first, "@") && len(first) > 1 {
			return HumanHandle(first)
		}

		if first == "channel" && len(segments) > 1 {
			return RawID(segments[1])
		}
	}

	if videoID, ok := extractVideoID(u, host, segments); ok {
		return VideoID(videoID)
	}

	return UnknownReference(s, Platform)
}

//////////////////////////////////////////////////

// parseLooseURL parses s as an absolute URL, assuming "https" for scheme-less
// input such as "youtube.com/@handle".
func parseLooseURL(s string) (*url.URL, bool) {
	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	} else if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}

	return u, true
}

// normalizeHostname returns the lower-cased hostname of u, without port and
// without a leading "www.".
func normalizeHostname(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func isPlatformHost(host string) bool {
	_, ok := platformHosts[host]
	return ok
}

func pathSegments(p string) []string {
	var segments []string
	for _, segment := range strings.Split(p, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	return segments
}

func extractVideoID(u *url.URL, host string, segments []string) (string, bool) {
	candidate := ""

	switch {
	case host == "youtu.be":
		if len(segments) > 0 {
			candidate = segments[0]
		}

	case u.Query().Get("v") != "":
		candidate = u.Query().Get("v")

	case len(segments) > 1:
		if _, ok := videoPathPrefixes[segments[0]]; ok {
			candidate = segments[1]
		}
	}

	if candidate == "" || !xmlapi.IsValidVideoID(candidate) {
		return "", false
	}

	return candidate, true
}
