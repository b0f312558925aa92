package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/truemediaorg/mediagateway/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruemediaAdapter(t *testing.T) {
	t.Run("resolves media items into a carousel", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/resolve-media", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
			var body resolveMediaRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://www.instagram.com/p/Cx9aB/", body.PostURL)
			fmt.Fprint(w, `{"result":"resolved","media":[
				{"id":"1","url":"https://cdn/v.mp4","mimeType":"video/mp4"},
				{"id":"2","url":"https://cdn/i.jpg","mimeType":"image/jpeg"},
				{"id":"3","url":"https://cdn/v.mp4","mimeType":"video/mp4"}]}`)
		})
		base.Path = "/api"
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		media, err := adapter.TryResolve(context.Background(), " https://www.instagram.com/p/Cx9aB/ ", postClass)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/v.mp4", "https://cdn/i.jpg"}, media.MediaURLs)
		assert.True(t, media.IsCarousel)
		assert.Equal(t, "https://cdn/i.jpg", media.ThumbnailURL)
		assert.Equal(t, model.UnknownAuthor, media.Author)
		assert.Equal(t, model.KindPost, media.Kind)
	})

	t.Run("failed result is no match", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"failed","reason":"private","details":"account is private"}`)
		})
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		_, err := adapter.TryResolve(context.Background(), "https://www.instagram.com/p/Cx9aB/", postClass)
		assert.ErrorIs(t, err, ErrNoMatch)
		assert.Contains(t, err.Error(), "account is private")
	})

	t.Run("resolved without media is no match", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"resolved","media":[]}`)
		})
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		_, err := adapter.TryResolve(context.Background(), "https://www.instagram.com/p/Cx9aB/", postClass)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("non-success status is a transport error", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		_, err := adapter.TryResolve(context.Background(), "https://www.instagram.com/p/Cx9aB/", postClass)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusTooManyRequests, transportErr.StatusCode)
	})

	t.Run("unexpected body is a parse error", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>maintenance</html>`)
		})
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		_, err := adapter.TryResolve(context.Background(), "https://www.instagram.com/p/Cx9aB/", postClass)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("unknown result value is a parse error", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items":[]}`)
		})
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		_, err := adapter.TryResolve(context.Background(), "https://www.instagram.com/p/Cx9aB/", postClass)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("deadline is a transport error", func(t *testing.T) {
		server, base := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		adapter := NewTruemediaAdapter(server.Client(), "secret", base, "")

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := adapter.TryResolve(ctx, "https://www.instagram.com/p/Cx9aB/", postClass)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("supports instagram posts and x posts only", func(t *testing.T) {
		adapter := NewTruemediaAdapter(nil, "", exampleURL(), "")
		assert.True(t, adapter.Supports(postClass))
		assert.True(t, adapter.Supports(reelClass))
		assert.True(t, adapter.Supports(tweetClass))
		assert.False(t, adapter.Supports(storyClass))
		assert.False(t, adapter.Supports(profileClass))
	})
}
