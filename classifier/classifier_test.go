package classifier

import (
	"testing"

	"github.com/truemediaorg/mediagateway/model"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("classifies instagram reels", func(t *testing.T) {
		class, err := Classify("https://instagram.com/reel/ABC123/")
		assert.NoError(t, err)
		assert.Equal(t, model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindReel, ContentID: "ABC123"}, class)
	})

	testCases := []struct {
		description string
		url         string
		expected    model.ContentClass
	}{
		{"post", "https://www.instagram.com/p/Cx_9-aB/", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindPost, ContentID: "Cx_9-aB"}},
		{"post with query string", "https://instagram.com/p/Cx9aB?igsh=abc&img_index=2", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindPost, ContentID: "Cx9aB"}},
		{"post under a username", "https://www.instagram.com/nasa/p/Cx9aB/", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindPost, ContentID: "Cx9aB", Username: "nasa"}},
		{"plural reels path", "https://www.instagram.com/reels/DEF456/", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindReel, ContentID: "DEF456"}},
		{"igtv is a reel", "http://m.instagram.com/tv/GHI789", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindReel, ContentID: "GHI789"}},
		{"scheme-less input", "instagram.com/reel/ABC123", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindReel, ContentID: "ABC123"}},
		{"story", "https://www.instagram.com/stories/nasa/3312345678901234567/", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindStory, ContentID: "3312345678901234567", Username: "nasa"}},
		{"highlight is checked before story", "https://www.instagram.com/stories/highlights/17912345678901234/", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindHighlight, ContentID: "17912345678901234"}},
		{"profile fallback", "https://www.instagram.com/nasa.gov_/", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindProfile, ContentID: "nasa.gov_", Username: "nasa.gov_"}},
		{"short host", "https://instagr.am/p/XYZ", model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindPost, ContentID: "XYZ"}},
		{"x status", "https://x.com/FooBar/status/1234567", model.ContentClass{Platform: model.PlatformX, Kind: model.KindPost, ContentID: "1234567", Username: "FooBar"}},
		{"twitter status with photo suffix", "https://mobile.twitter.com/FooBar/status/1234567/photo/1", model.ContentClass{Platform: model.PlatformX, Kind: model.KindPost, ContentID: "1234567", Username: "FooBar"}},
		{"x web status", "https://twitter.com/i/web/status/1234567", model.ContentClass{Platform: model.PlatformX, Kind: model.KindPost, ContentID: "1234567"}},
		{"x profile", "https://www.x.com/FooBar", model.ContentClass{Platform: model.PlatformX, Kind: model.KindProfile, ContentID: "FooBar", Username: "FooBar"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			class, err := Classify(testCase.url)
			assert.NoError(t, err)
			assert.Equal(t, testCase.expected, class)
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	testCases := []struct {
		description string
		url         string
	}{
		{"unknown platform", "https://example.com/not-a-platform"},
		{"empty string", ""},
		{"whitespace", "   "},
		{"not a url", "::::"},
		{"unsupported scheme", "ftp://instagram.com/p/ABC"},
		{"reserved instagram path", "https://www.instagram.com/explore/"},
		{"instagram root", "https://www.instagram.com/"},
		{"unknown instagram shape", "https://www.instagram.com/p/ABC/comments/extra"},
		{"reserved x path", "https://x.com/home"},
		{"lookalike host", "https://notinstagram.com/p/ABC"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			class, err := Classify(testCase.url)
			assert.ErrorIs(t, err, ErrInvalidURL)
			assert.Equal(t, model.ContentClass{}, class)
		})
	}
}
