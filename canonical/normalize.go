// Package canonical holds the one place where adapter output is turned into
// a model.CanonicalMedia, so every provider obeys the same invariants.
package canonical

import (
	"strings"

	"github.com/samber/lo"
	"github.com/truemediaorg/mediagateway/model"
)

// Draft is what an adapter managed to extract. Normalize derives the
// carousel flag from MediaURLs.
type Draft struct {
	Kind         model.Kind
	Author       string
	Caption      string
	ThumbnailURL string
	MediaURLs    []string
}

func Normalize(d Draft, class model.ContentClass) model.CanonicalMedia {
	urls := lo.Uniq(lo.FilterMap(d.MediaURLs, func(raw string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(raw)
		return trimmed, trimmed != ""
	}))

	media := model.CanonicalMedia{
		Success:      len(urls) > 0,
		Kind:         d.Kind,
		Author:       strings.TrimSpace(d.Author),
		Caption:      strings.TrimSpace(d.Caption),
		ThumbnailURL: strings.TrimSpace(d.ThumbnailURL),
		MediaURLs:    urls,
		IsCarousel:   len(urls) > 1,
	}
	if media.Kind == "" {
		media.Kind = class.Kind
	}
	if media.Author == "" {
		media.Author = model.UnknownAuthor
	}
	if media.ThumbnailURL == "" && len(urls) > 0 {
		media.ThumbnailURL = urls[0]
	}
	return media
}

// Valid reports whether media satisfies the canonical invariants.
func Valid(media model.CanonicalMedia) bool {
	if media.Success != (len(media.MediaURLs) > 0) {
		return false
	}
	if media.IsCarousel != (len(media.MediaURLs) > 1) {
		return false
	}
	return len(lo.Uniq(media.MediaURLs)) == len(media.MediaURLs)
}
