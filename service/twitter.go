package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dghubble/oauth1"
	"github.com/g8rswimmer/go-twitter/v2"
	"github.com/truemediaorg/mediagateway/config"
)

type authorize struct {
	Token string
}

func (a authorize) Add(req *http.Request) {
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", a.Token))
}

// userContext leaves signing to the OAuth1 transport.
type userContext struct{}

func (userContext) Add(*http.Request) {}

// NewTwitterClient builds an X API client, preferring the app-only bearer
// token and falling back to OAuth1 user context. It returns nil when no
// credentials are configured.
func NewTwitterClient(ctx context.Context, cfg config.TwitterConfig, secrets config.TwitterSecretData, httpClient *http.Client) *twitter.Client {
	host := cfg.ApiURL.String()
	switch {
	case secrets.BearerToken != "":
		return &twitter.Client{
			Authorizer: authorize{Token: secrets.BearerToken},
			Client:     httpClient,
			Host:       host,
		}
	case secrets.HasUserContext():
		oauthConfig := oauth1.NewConfig(secrets.ConsumerKey, secrets.ConsumerSecret)
		oauthToken := oauth1.NewToken(secrets.AccessToken, secrets.AccessTokenSecret)
		// the signing transport wraps the shared client's transport
		ctx = context.WithValue(ctx, oauth1.HTTPClient, httpClient)
		return &twitter.Client{
			Authorizer: userContext{},
			Client:     oauthConfig.Client(ctx, oauthToken),
			Host:       host,
		}
	default:
		return nil
	}
}
