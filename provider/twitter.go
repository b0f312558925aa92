package provider

import (
	"context"
	"errors"

	"github.com/g8rswimmer/go-twitter/v2"
	"github.com/truemediaorg/mediagateway/canonical"
	"github.com/truemediaorg/mediagateway/model"

	log "github.com/sirupsen/logrus"
)

type mediaType string

const (
	mediaTypePhoto       mediaType = "photo"
	mediaTypeAnimatedGIF mediaType = "animated_gif"
	mediaTypeVideo       mediaType = "video"
)

// TweetLookuper is the slice of the X API client the adapter needs.
type TweetLookuper interface {
	TweetLookup(ctx context.Context, ids []string, opts twitter.TweetLookupOpts) (*twitter.TweetLookupResponse, error)
}

// TwitterAdapter resolves X posts through the v2 API. The API only hands
// out direct URLs for photos, so tweets carrying video are reported as
// NoMatch and left to the next adapter.
type TwitterAdapter struct {
	client TweetLookuper
}

func NewTwitterAdapter(client TweetLookuper) *TwitterAdapter {
	return &TwitterAdapter{client: client}
}

func (a *TwitterAdapter) Name() string {
	return "twitter"
}

func (a *TwitterAdapter) Supports(class model.ContentClass) bool {
	return kindIn(class, model.PlatformX, model.KindPost)
}

func (a *TwitterAdapter) TryResolve(ctx context.Context, rawURL string, class model.ContentClass) (*model.CanonicalMedia, error) {
	opts := twitter.TweetLookupOpts{
		TweetFields: []twitter.TweetField{twitter.TweetFieldAuthorID, twitter.TweetFieldAttachments},
		MediaFields: []twitter.MediaField{twitter.MediaFieldMediaKey, twitter.MediaFieldType, twitter.MediaFieldURL, twitter.MediaFieldPreviewImageURL},
		UserFields:  []twitter.UserField{twitter.UserFieldUserName},
		Expansions:  []twitter.Expansion{twitter.ExpansionAttachmentsMediaKeys, twitter.ExpansionAuthorID},
	}
	resp, err := a.client.TweetLookup(ctx, []string{class.ContentID}, opts)
	if err != nil {
		return nil, a.classifyError(err)
	}
	if resp.RateLimit != nil {
		log.WithField("limit", resp.RateLimit.Limit).WithField("remaining", resp.RateLimit.Remaining).Debug("rate limit data for tweet lookup")
	}
	if resp.Raw == nil {
		return nil, &ParseError{Provider: a.Name(), Err: errors.New("empty lookup response")}
	}

	tweet, ok := resp.Raw.TweetDictionaries()[class.ContentID]
	if !ok || tweet == nil {
		return nil, noMatch("tweet not found")
	}

	draft := canonical.Draft{Kind: model.KindPost, Caption: tweet.Tweet.Text}
	if tweet.Author != nil {
		draft.Author = tweet.Author.UserName
	}
	hasVideo := false
	for _, media := range tweet.AttachmentMedia {
		if media == nil {
			continue
		}
		if draft.ThumbnailURL == "" {
			draft.ThumbnailURL = media.PreviewImageURL
		}
		switch mediaType(media.Type) {
		case mediaTypePhoto:
			draft.MediaURLs = append(draft.MediaURLs, media.URL)
		case mediaTypeVideo, mediaTypeAnimatedGIF:
			hasVideo = true
		}
	}

	if hasVideo {
		// a partial answer would hide the video from the caller
		return nil, noMatch("video media needs another provider")
	}

	result := canonical.Normalize(draft, class)
	if !result.Success {
		return nil, noMatch("tweet has no media")
	}
	return &result, nil
}

func (a *TwitterAdapter) classifyError(err error) error {
	var apiError *twitter.ErrorResponse
	if errors.As(err, &apiError) {
		return &TransportError{Provider: a.Name(), StatusCode: apiError.StatusCode, Err: err}
	}
	var decodeError *twitter.ResponseDecodeError
	if errors.As(err, &decodeError) {
		return &ParseError{Provider: a.Name(), Err: err}
	}
	return &TransportError{Provider: a.Name(), Err: err}
}
