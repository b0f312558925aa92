package canonical

import (
	"testing"

	"github.com/truemediaorg/mediagateway/model"

	"github.com/stretchr/testify/assert"
)

var reelClass = model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindReel, ContentID: "ABC123"}

func TestNormalize(t *testing.T) {
	t.Run("dedups media urls preserving first-seen order", func(t *testing.T) {
		media := Normalize(Draft{MediaURLs: []string{"x", "x", "y"}}, reelClass)
		assert.Equal(t, []string{"x", "y"}, media.MediaURLs)
		assert.True(t, media.Success)
		assert.True(t, media.IsCarousel)
	})

	t.Run("drops blank urls before deduping", func(t *testing.T) {
		media := Normalize(Draft{MediaURLs: []string{" ", "a", " a ", ""}}, reelClass)
		assert.Equal(t, []string{"a"}, media.MediaURLs)
		assert.False(t, media.IsCarousel)
	})

	t.Run("applies defaults for missing optional fields", func(t *testing.T) {
		media := Normalize(Draft{MediaURLs: []string{"https://cdn/a.mp4"}}, reelClass)
		assert.Equal(t, model.KindReel, media.Kind)
		assert.Equal(t, model.UnknownAuthor, media.Author)
		assert.Equal(t, "", media.Caption)
		assert.Equal(t, "https://cdn/a.mp4", media.ThumbnailURL)
	})

	t.Run("keeps provider values when present", func(t *testing.T) {
		media := Normalize(Draft{
			Kind:         model.KindPost,
			Author:       "nasa",
			Caption:      "  hello  ",
			ThumbnailURL: "https://cdn/t.jpg",
			MediaURLs:    []string{"https://cdn/a.jpg"},
		}, reelClass)
		assert.Equal(t, model.KindPost, media.Kind)
		assert.Equal(t, "nasa", media.Author)
		assert.Equal(t, "hello", media.Caption)
		assert.Equal(t, "https://cdn/t.jpg", media.ThumbnailURL)
	})

	t.Run("empty media is not a success", func(t *testing.T) {
		media := Normalize(Draft{Author: "nasa"}, reelClass)
		assert.False(t, media.Success)
		assert.False(t, media.IsCarousel)
		assert.Empty(t, media.MediaURLs)
		assert.Equal(t, "", media.ThumbnailURL)
	})
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Normalize(Draft{MediaURLs: []string{"a", "b"}}, reelClass)))
	assert.True(t, Valid(model.CanonicalMedia{}))
	assert.False(t, Valid(model.CanonicalMedia{Success: true}))
	assert.False(t, Valid(model.CanonicalMedia{Success: true, MediaURLs: []string{"a"}, IsCarousel: true}))
	assert.False(t, Valid(model.CanonicalMedia{Success: true, MediaURLs: []string{"a", "a"}, IsCarousel: true}))
}
