package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/samber/lo"
	"github.com/truemediaorg/mediagateway/config"
	"github.com/truemediaorg/mediagateway/provider"
	"golang.org/x/exp/maps"

	log "github.com/sirupsen/logrus"
)

// Every adapter the gateway knows how to build, configured or not.
var (
	KnownMediaProviders   = []string{"rapidapi", "formpost", "embed", "twitter", "truemedia"}
	KnownProfileProviders = []string{"rapidapi", "webprofile", "ogprofile"}
)

// Registry holds the adapters that could be built from the configuration.
// Adapters missing credentials or an endpoint are absent.
type Registry struct {
	media    map[string]provider.MediaAdapter
	profiles map[string]provider.ProfileAdapter
	disabled map[string]string
}

func NewRegistry(ctx context.Context, cfg config.Config, client *http.Client) *Registry {
	r := &Registry{
		media:    map[string]provider.MediaAdapter{},
		profiles: map[string]provider.ProfileAdapter{},
		disabled: map[string]string{},
	}
	userAgent := cfg.Resolve.UserAgent

	if cfg.RapidAPI.ApiURL != nil && cfg.Secrets.RapidAPI.ApiKey != "" {
		rapid := provider.NewRapidAPIAdapter(client, cfg.Secrets.RapidAPI.ApiKey, *cfg.RapidAPI.ApiURL, cfg.RapidAPI.Host, userAgent)
		r.media[rapid.Name()] = rapid
		r.profiles[rapid.Name()] = rapid
	} else {
		r.disabled["rapidapi"] = "RAPIDAPI_URL or RAPIDAPI_KEY not set"
	}

	if cfg.FormPost.URL != nil {
		r.media["formpost"] = provider.NewFormPostAdapter(client, *cfg.FormPost.URL, userAgent)
	} else {
		r.disabled["formpost"] = "FORMPOST_URL not set"
	}

	r.media["embed"] = provider.NewEmbedAdapter(client, cfg.Instagram.URL, userAgent)
	r.profiles["webprofile"] = provider.NewWebProfileAdapter(client, cfg.Instagram.ApiURL, cfg.Instagram.AppID, userAgent)
	r.profiles["ogprofile"] = provider.NewOGProfileAdapter(client, cfg.Instagram.URL, userAgent)

	if twitterClient := NewTwitterClient(ctx, cfg.Twitter, cfg.Secrets.Twitter, client); twitterClient != nil {
		r.media["twitter"] = provider.NewTwitterAdapter(twitterClient)
	} else {
		r.disabled["twitter"] = "no X API credentials"
	}

	if cfg.Truemedia.ApiURL != nil && cfg.Secrets.Truemedia.ApiKey != "" {
		r.media["truemedia"] = provider.NewTruemediaAdapter(client, cfg.Secrets.Truemedia.ApiKey, *cfg.Truemedia.ApiURL, userAgent)
	} else {
		r.disabled["truemedia"] = "TRUEMEDIA_API or TRUEMEDIA_API_KEY not set"
	}

	return r
}

// MediaChain returns the configured adapters in the given order. Unknown
// names are an error; known but unconfigured ones are skipped.
func (r *Registry) MediaChain(order []string) ([]provider.MediaAdapter, error) {
	chain := []provider.MediaAdapter{}
	for _, name := range order {
		if !lo.Contains(KnownMediaProviders, name) {
			return nil, fmt.Errorf("unknown media provider %q", name)
		}
		if adapter, ok := r.media[name]; ok {
			chain = append(chain, adapter)
		} else {
			log.WithField("provider", name).Warnf("media provider disabled: %s", r.disabled[name])
		}
	}
	return chain, nil
}

func (r *Registry) ProfileChain(order []string) ([]provider.ProfileAdapter, error) {
	chain := []provider.ProfileAdapter{}
	for _, name := range order {
		if !lo.Contains(KnownProfileProviders, name) {
			return nil, fmt.Errorf("unknown profile provider %q", name)
		}
		if adapter, ok := r.profiles[name]; ok {
			chain = append(chain, adapter)
		} else {
			log.WithField("provider", name).Warnf("profile provider disabled: %s", r.disabled[name])
		}
	}
	return chain, nil
}

// Enabled lists the names of every media adapter that was built, sorted.
func (r *Registry) Enabled() []string {
	names := maps.Keys(r.media)
	sort.Strings(names)
	return names
}

// Disabled maps each adapter that could not be built to the reason.
func (r *Registry) Disabled() map[string]string {
	return maps.Clone(r.disabled)
}
