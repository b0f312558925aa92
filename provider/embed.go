package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/truemediaorg/mediagateway/canonical"
	"github.com/truemediaorg/mediagateway/model"
)

// EmbedAdapter scrapes Instagram's public embed page for a post. It only
// sees the first carousel item, so it sits low in the chain.
type EmbedAdapter struct {
	upstream
	baseURL string
}

func NewEmbedAdapter(client *http.Client, instagramURL url.URL, userAgent string) *EmbedAdapter {
	return &EmbedAdapter{
		upstream: newUpstream("embed", client, userAgent),
		baseURL:  strings.TrimRight(instagramURL.String(), "/"),
	}
}

func (a *EmbedAdapter) Name() string {
	return a.name
}

func (a *EmbedAdapter) Supports(class model.ContentClass) bool {
	return kindIn(class, model.PlatformInstagram, model.KindPost, model.KindReel)
}

func (a *EmbedAdapter) TryResolve(ctx context.Context, rawURL string, class model.ContentClass) (*model.CanonicalMedia, error) {
	embedURL := fmt.Sprintf("%s/p/%s/embed/captioned/", a.baseURL, url.PathEscape(class.ContentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, embedURL, nil)
	if err != nil {
		return nil, &TransportError{Provider: a.name, Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}
	doc, err := a.parseHTML(body)
	if err != nil {
		return nil, err
	}

	embed := doc.Find(".Embed").First()
	if embed.Length() == 0 {
		return nil, a.malformed(errors.New("no embed container"))
	}

	media := canonical.Normalize(parseEmbed(embed), class)
	if !media.Success {
		return nil, noMatch("embed has no media")
	}
	return &media, nil
}

func parseEmbed(embed *goquery.Selection) canonical.Draft {
	var draft canonical.Draft

	image := embed.Find("img.EmbeddedMediaImage").First().AttrOr("src", "")
	embed.Find("video").Each(func(_ int, v *goquery.Selection) {
		src := v.AttrOr("src", "")
		if src == "" {
			src = v.Find("source[src]").First().AttrOr("src", "")
		}
		if isAbsoluteURL(src) {
			draft.MediaURLs = append(draft.MediaURLs, src)
		}
		if poster := v.AttrOr("poster", ""); draft.ThumbnailURL == "" && isAbsoluteURL(poster) {
			draft.ThumbnailURL = poster
		}
	})
	if isAbsoluteURL(image) {
		if len(draft.MediaURLs) == 0 {
			draft.MediaURLs = append(draft.MediaURLs, image)
		}
		if draft.ThumbnailURL == "" {
			draft.ThumbnailURL = image
		}
	}

	draft.Author = strings.TrimSpace(embed.Find(".UsernameText").First().Text())

	caption := embed.Find(".Caption").First().Clone()
	caption.Find(".CaptionUsername, .CaptionComments").Remove()
	draft.Caption = strings.Join(strings.Fields(caption.Text()), " ")

	return draft
}
