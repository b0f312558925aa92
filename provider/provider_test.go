package provider

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/truemediaorg/mediagateway/model"
)

var (
	postClass    = model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindPost, ContentID: "Cx9aB"}
	reelClass    = model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindReel, ContentID: "ABC123"}
	storyClass   = model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindStory, ContentID: "3312345678901234567", Username: "nasa"}
	profileClass = model.ContentClass{Platform: model.PlatformInstagram, Kind: model.KindProfile, ContentID: "nasa", Username: "nasa"}
	tweetClass   = model.ContentClass{Platform: model.PlatformX, Kind: model.KindPost, ContentID: "1234567", Username: "FooBar"}
)

func newUpstreamServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, url.URL) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parsing test server url: %v", err)
	}
	return server, *u
}

func exampleURL() url.URL {
	return url.URL{Scheme: "https", Host: "upstream.invalid"}
}
