// Package classifier turns a user-supplied URL into a model.ContentClass
// without touching the network.
package classifier

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/truemediaorg/mediagateway/model"
)

var ErrInvalidURL = errors.New("invalid url")

type pattern struct {
	kind model.Kind
	re   *regexp.Regexp
	// reserved first path segments that must not be read as a username
	reserved map[string]struct{}
}

// Patterns are tried in order and the first match wins, so the generic
// profile fallback stays last and highlights come before stories.
var patterns = map[model.Platform][]pattern{
	model.PlatformInstagram: {
		{kind: model.KindHighlight, re: regexp.MustCompile(`^/stories/highlights/(?P<id>\d+)$`)},
		{kind: model.KindStory, re: regexp.MustCompile(`^/stories/(?P<user>[A-Za-z0-9._]{1,30})/(?P<id>\d+)$`)},
		{kind: model.KindReel, re: regexp.MustCompile(`^/(?:(?P<user>[A-Za-z0-9._]{1,30})/)?(?:reel|reels|tv)/(?P<id>[A-Za-z0-9_-]+)$`)},
		{kind: model.KindPost, re: regexp.MustCompile(`^/(?:(?P<user>[A-Za-z0-9._]{1,30})/)?p/(?P<id>[A-Za-z0-9_-]+)$`)},
		{
			kind: model.KindProfile,
			re:   regexp.MustCompile(`^/(?P<user>[A-Za-z0-9._]{1,30})$`),
			reserved: setOf("explore", "accounts", "direct", "stories", "reels", "reel", "p", "tv",
				"about", "legal", "developer", "web", "api", "challenge", "emails", "privacy", "session"),
		},
	},
	model.PlatformX: {
		{kind: model.KindPost, re: regexp.MustCompile(`^/(?P<user>\w{1,15})/status(?:es)?/(?P<id>\d+)(?:/(?:photo|video)/\d+)?$`)},
		{kind: model.KindPost, re: regexp.MustCompile(`^/i/web/status/(?P<id>\d+)$`)},
		{
			kind: model.KindProfile,
			re:   regexp.MustCompile(`^/(?P<user>\w{1,15})$`),
			reserved: setOf("home", "explore", "search", "i", "settings", "messages", "notifications",
				"compose", "login", "signup", "tos", "privacy"),
		},
	},
}

var hosts = map[string]model.Platform{
	"instagram.com": model.PlatformInstagram,
	"instagr.am":    model.PlatformInstagram,
	"twitter.com":   model.PlatformX,
	"x.com":         model.PlatformX,
}

// Classify reports the platform, kind and content ID a URL points at.
// Anything that doesn't match a known platform pattern is ErrInvalidURL.
func Classify(rawURL string) (model.ContentClass, error) {
	u, err := parse(rawURL)
	if err != nil {
		return model.ContentClass{}, err
	}

	platform, ok := hosts[canonicalHost(u.Hostname())]
	if !ok {
		return model.ContentClass{}, ErrInvalidURL
	}

	path := strings.TrimRight(u.EscapedPath(), "/")
	for _, p := range patterns[platform] {
		matches := p.re.FindStringSubmatch(path)
		if matches == nil {
			continue
		}
		class := model.ContentClass{Platform: platform, Kind: p.kind}
		for i, name := range p.re.SubexpNames() {
			switch name {
			case "id":
				class.ContentID = matches[i]
			case "user":
				class.Username = matches[i]
			}
		}
		if p.kind == model.KindProfile {
			if _, taken := p.reserved[strings.ToLower(class.Username)]; taken {
				return model.ContentClass{}, ErrInvalidURL
			}
			class.ContentID = class.Username
		}
		return class, nil
	}
	return model.ContentClass{}, ErrInvalidURL
}

func parse(rawURL string) (*url.URL, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func canonicalHost(host string) string {
	host = strings.ToLower(host)
	for _, prefix := range []string{"www.", "m.", "mobile."} {
		host = strings.TrimPrefix(host, prefix)
	}
	return host
}

func setOf(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
