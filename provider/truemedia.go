package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/truemediaorg/mediagateway/canonical"
	"github.com/truemediaorg/mediagateway/model"
)

type resolveMediaRequest struct {
	PostURL string `json:"postUrl"`
}

const (
	resolveMediaResultResolved = "resolved"
	resolveMediaResultFailed   = "failed"
)

type resolveMediaItem struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

/*
This shape changes somewhat depending on Result:
If Result == failed:

	FailureReason and FailureDetails are populated, Media is empty

If Result == resolved:

	Media is populated, FailureReason and FailureDetails empty.
*/
type resolveMediaResponse struct {
	Result         string             `json:"result"`
	Media          []resolveMediaItem `json:"media,omitempty"`
	FailureReason  string             `json:"reason,omitempty"`
	FailureDetails string             `json:"details,omitempty"`
}

// TruemediaAdapter calls the TrueMedia resolve-media endpoint, which accepts
// any supported post URL and answers with a flat list of media items.
type TruemediaAdapter struct {
	upstream
	baseURL string
	apiKey  string
}

func NewTruemediaAdapter(client *http.Client, apiKey string, baseURL url.URL, userAgent string) *TruemediaAdapter {
	return &TruemediaAdapter{
		upstream: newUpstream("truemedia", client, userAgent),
		baseURL:  strings.TrimRight(baseURL.String(), "/"),
		apiKey:   apiKey,
	}
}

func (a *TruemediaAdapter) Name() string {
	return a.name
}

func (a *TruemediaAdapter) Supports(class model.ContentClass) bool {
	return kindIn(class, model.PlatformInstagram, model.KindPost, model.KindReel) ||
		kindIn(class, model.PlatformX, model.KindPost)
}

func (a *TruemediaAdapter) TryResolve(ctx context.Context, rawURL string, class model.ContentClass) (*model.CanonicalMedia, error) {
	reqBody, err := json.Marshal(resolveMediaRequest{PostURL: strings.TrimSpace(rawURL)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/resolve-media", a.baseURL), bytes.NewReader(reqBody))
	if err != nil {
		return nil, &TransportError{Provider: a.name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("X-API-KEY", a.apiKey)

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var rmr resolveMediaResponse
	if err := a.decodeJSON(body, &rmr); err != nil {
		return nil, err
	}

	switch rmr.Result {
	case resolveMediaResultFailed:
		return nil, noMatch(strings.TrimSpace(rmr.FailureReason + " " + rmr.FailureDetails))
	case resolveMediaResultResolved:
	default:
		return nil, a.malformed(fmt.Errorf("unexpected result %q", rmr.Result))
	}

	draft := canonical.Draft{}
	for _, item := range rmr.Media {
		draft.MediaURLs = append(draft.MediaURLs, item.URL)
		if draft.ThumbnailURL == "" && strings.HasPrefix(item.MimeType, "image/") {
			draft.ThumbnailURL = item.URL
		}
	}

	media := canonical.Normalize(draft, class)
	if !media.Success {
		return nil, noMatch("resolved without media")
	}
	return &media, nil
}
