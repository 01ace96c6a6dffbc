package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func newTestAPILookup(t *testing.T, handler http.HandlerFunc) *APILookup {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	l, err := NewAPILookup(svc)
	require.NoError(t, err)

	return l
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAPILookup(t *testing.T) {
	channelItem := map[string]any{
		"id": testChannelID,
		"snippet": map[string]any{
			"title":       "Lofi Girl",
			"customUrl":   "@lofigirl",
			"publishedAt": "2015-03-03T12:12:46Z",
			"country":     "FR",
		},
	}

	l := newTestAPILookup(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		switch {
		case strings.HasSuffix(r.URL.Path, "/channels") && q.Get("id") == testChannelID:
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{channelItem}})
		case strings.HasSuffix(r.URL.Path, "/channels") && q.Get("forHandle") == "@lofigirl":
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{channelItem}})
		case strings.HasSuffix(r.URL.Path, "/channels"):
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		case strings.HasSuffix(r.URL.Path, "/videos") && q.Get("id") == testVideoID:
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{map[string]any{
				"id": testVideoID,
				"snippet": map[string]any{
					"channelId":    testChannelID,
					"title":        "lofi hip hop radio",
					"channelTitle": "Lofi Girl",
				},
			}}})
		case strings.HasSuffix(r.URL.Path, "/videos"):
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	ch, err := l.ChannelByID(ctx, testChannelID)
	require.NoError(t, err)
	assert.Equal(t, "Lofi Girl", ch.Title)
	assert.Equal(t, "lofigirl", ch.Handle)
	assert.Equal(t, "FR", ch.Country)
	assert.Equal(t, "api", ch.Source)
	assert.NotZero(t, ch.PublishedAt)

	ch, err = l.ChannelByHandle(ctx, "lofigirl")
	require.NoError(t, err)
	assert.Equal(t, testChannelID, ch.ID)

	_, err = l.ChannelByID(ctx, "UCmissingchannel")
	assert.ErrorIs(t, err, ChannelNotFound)

	_, err = l.ChannelByHandle(ctx, "nobody_here")
	assert.ErrorIs(t, err, ChannelNotFound)

	v, err := l.VideoByID(ctx, testVideoID)
	require.NoError(t, err)
	assert.Equal(t, testChannelID, v.ChannelID)
	assert.Equal(t, "Lofi Girl", v.Author)

	_, err = l.VideoByID(ctx, "missingvideo")
	assert.ErrorIs(t, err, VideoNotFound)

	_, err = l.VideoByID(ctx, "bad/id")
	assert.ErrorIs(t, err, VideoNotFound)
	assert.ErrorIs(t, err, InvalidVideoID)
}

func TestAPILookupServiceError(t *testing.T) {
	l := newTestAPILookup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{
			"code":    403,
			"message": "The request cannot be completed because you have exceeded your quota.",
			"errors":  []any{map[string]any{"reason": "quotaExceeded"}},
		}})
	})

	r := newTestResolver(t, l)

	_, ok, err := r.Normalize(context.Background(), RawID(testChannelID))
	assert.False(t, ok)
	assert.True(t, IsServiceError(err))
	assert.False(t, strings.Contains(err.Error(), "not found"))
}

func TestNewAPILookupNilService(t *testing.T) {
	_, err := NewAPILookup(nil)
	assert.ErrorIs(t, err, NilService)
}
