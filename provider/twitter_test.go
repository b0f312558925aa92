package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/g8rswimmer/go-twitter/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTweetLookuper struct {
	mock.Mock
}

func (m *MockTweetLookuper) TweetLookup(ctx context.Context, ids []string, opts twitter.TweetLookupOpts) (*twitter.TweetLookupResponse, error) {
	args := m.Called(ctx, ids)
	resp, _ := args.Get(0).(*twitter.TweetLookupResponse)
	return resp, args.Error(1)
}

func lookupResponse(t *testing.T, raw string) *twitter.TweetLookupResponse {
	t.Helper()
	tweetRaw := &twitter.TweetRaw{}
	require.NoError(t, json.Unmarshal([]byte(raw), tweetRaw))
	return &twitter.TweetLookupResponse{Raw: tweetRaw}
}

func TestTwitterAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves photos with author", func(t *testing.T) {
		client := &MockTweetLookuper{}
		client.On("TweetLookup", ctx, []string{"1234567"}).Return(lookupResponse(t, `{
			"data": [{"id": "1234567", "text": "two photos", "author_id": "42", "attachments": {"media_keys": ["3_1", "3_2"]}}],
			"includes": {
				"media": [
					{"media_key": "3_1", "type": "photo", "url": "https://pbs.twimg.com/media/a.jpg"},
					{"media_key": "3_2", "type": "photo", "url": "https://pbs.twimg.com/media/b.jpg"}
				],
				"users": [{"id": "42", "name": "Foo Bar", "username": "FooBar"}]
			}
		}`), nil)

		media, err := NewTwitterAdapter(client).TryResolve(ctx, "https://x.com/FooBar/status/1234567", tweetClass)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://pbs.twimg.com/media/a.jpg", "https://pbs.twimg.com/media/b.jpg"}, media.MediaURLs)
		assert.Equal(t, "FooBar", media.Author)
		assert.Equal(t, "two photos", media.Caption)
		assert.True(t, media.IsCarousel)
		client.AssertExpectations(t)
	})

	t.Run("video is left to the next provider", func(t *testing.T) {
		client := &MockTweetLookuper{}
		client.On("TweetLookup", ctx, []string{"1234567"}).Return(lookupResponse(t, `{
			"data": [{"id": "1234567", "text": "clip", "attachments": {"media_keys": ["7_1"]}}],
			"includes": {"media": [{"media_key": "7_1", "type": "video", "preview_image_url": "https://pbs.twimg.com/preview.jpg"}]}
		}`), nil)

		_, err := NewTwitterAdapter(client).TryResolve(ctx, "", tweetClass)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("text only tweet is no match", func(t *testing.T) {
		client := &MockTweetLookuper{}
		client.On("TweetLookup", ctx, []string{"1234567"}).Return(lookupResponse(t, `{
			"data": [{"id": "1234567", "text": "just words"}]
		}`), nil)

		_, err := NewTwitterAdapter(client).TryResolve(ctx, "", tweetClass)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("missing tweet is no match", func(t *testing.T) {
		client := &MockTweetLookuper{}
		client.On("TweetLookup", ctx, []string{"1234567"}).Return(lookupResponse(t, `{"data": []}`), nil)

		_, err := NewTwitterAdapter(client).TryResolve(ctx, "", tweetClass)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("api errors are transport errors", func(t *testing.T) {
		client := &MockTweetLookuper{}
		client.On("TweetLookup", ctx, []string{"1234567"}).Return(nil, &twitter.ErrorResponse{StatusCode: http.StatusTooManyRequests, Title: "Too Many Requests"})

		_, err := NewTwitterAdapter(client).TryResolve(ctx, "", tweetClass)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusTooManyRequests, transportErr.StatusCode)
	})

	t.Run("decode errors are parse errors", func(t *testing.T) {
		client := &MockTweetLookuper{}
		client.On("TweetLookup", ctx, []string{"1234567"}).Return(nil, &twitter.ResponseDecodeError{Name: "tweet lookup", Err: errors.New("unexpected EOF")})

		_, err := NewTwitterAdapter(client).TryResolve(ctx, "", tweetClass)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("only x posts", func(t *testing.T) {
		adapter := NewTwitterAdapter(&MockTweetLookuper{})
		assert.True(t, adapter.Supports(tweetClass))
		assert.False(t, adapter.Supports(postClass))
	})
}
