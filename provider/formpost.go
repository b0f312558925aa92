package provider

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/truemediaorg/mediagateway/canonical"
	"github.com/truemediaorg/mediagateway/model"
)

// formPostResponse wraps an HTML fragment in a JSON envelope. When Status is
// "error", Mess carries the human readable reason and Data is empty.
type formPostResponse struct {
	Status string `json:"status"`
	Mess   string `json:"mess"`
	Data   string `json:"data"`
}

// FormPostAdapter submits the URL to a public downloader site's search form
// and scrapes the download links out of the returned fragment.
type FormPostAdapter struct {
	upstream
	endpoint string
}

func NewFormPostAdapter(client *http.Client, endpoint url.URL, userAgent string) *FormPostAdapter {
	return &FormPostAdapter{
		upstream: newUpstream("formpost", client, userAgent),
		endpoint: endpoint.String(),
	}
}

func (a *FormPostAdapter) Name() string {
	return a.name
}

func (a *FormPostAdapter) Supports(class model.ContentClass) bool {
	return kindIn(class, model.PlatformInstagram, model.KindPost, model.KindReel, model.KindStory, model.KindHighlight)
}

func (a *FormPostAdapter) TryResolve(ctx context.Context, rawURL string, class model.ContentClass) (*model.CanonicalMedia, error) {
	form := url.Values{
		"q":    {strings.TrimSpace(rawURL)},
		"t":    {"media"},
		"lang": {"en"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Provider: a.name, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var fpr formPostResponse
	if err := a.decodeJSON(body, &fpr); err != nil {
		return nil, err
	}
	switch fpr.Status {
	case "ok":
	case "error":
		return nil, noMatch(fpr.Mess)
	default:
		return nil, a.malformed(errors.New("missing status"))
	}
	if strings.TrimSpace(fpr.Data) == "" {
		return nil, noMatch("empty result")
	}

	doc, err := a.parseHTML([]byte(fpr.Data))
	if err != nil {
		return nil, err
	}

	media := canonical.Normalize(parseDownloadItems(doc), class)
	if !media.Success {
		return nil, noMatch("no download links")
	}
	return &media, nil
}

// parseDownloadItems extracts one media link (and thumbnail) per
// .download-items block.
func parseDownloadItems(doc *goquery.Document) canonical.Draft {
	var draft canonical.Draft

	doc.Find(".download-items").Each(func(_ int, s *goquery.Selection) {
		link := s.Find(".download-items__btn a[href]").First()
		href, exists := link.Attr("href")
		if !exists || !isAbsoluteURL(href) {
			return
		}
		draft.MediaURLs = append(draft.MediaURLs, href)

		if draft.ThumbnailURL == "" {
			img := s.Find(".download-items__thumb img").First()
			thumb := img.AttrOr("src", "")
			if !isAbsoluteURL(thumb) {
				thumb = img.AttrOr("data-src", "")
			}
			if isAbsoluteURL(thumb) {
				draft.ThumbnailURL = thumb
			}
		}
	})

	return draft
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
