package cmd

import (
	"errors"
	"fmt"

	"github.com/dghubble/oauth1"
	twauth "github.com/dghubble/oauth1/twitter"
	"github.com/spf13/cobra"
	"github.com/truemediaorg/mediagateway/config"
)

func init() {
	rootCmd.AddCommand(authorizerCmd)
}

var authorizerCmd = &cobra.Command{
	Use:   "authorizer",
	Short: "Generates an OAuth1 access token pair for the X provider",
	Long: `Generates an OAuth1 access token pair so the X provider can call the API
in user context. Requires the consumer key and secret to be configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		secrets := cfg.Secrets.Twitter
		if secrets.ConsumerKey == "" || secrets.ConsumerSecret == "" {
			return errors.New("consumer key and secret must be configured")
		}

		oauthConfig := oauth1.Config{
			ConsumerKey:    secrets.ConsumerKey,
			ConsumerSecret: secrets.ConsumerSecret,
			CallbackURL:    "oob",
			Endpoint:       twauth.AuthorizeEndpoint,
		}

		requestToken, err := login(oauthConfig)
		if err != nil {
			return fmt.Errorf("request token phase: %w", err)
		}
		accessToken, err := receivePIN(oauthConfig, requestToken)
		if err != nil {
			return fmt.Errorf("access token phase: %w", err)
		}

		fmt.Println("Consumer was granted an access token to act on behalf of a user.")
		fmt.Printf("%s=%s\n%s=%s\n", config.EnvfileKeyTwitterAccessToken, accessToken.Token, config.EnvfileKeyTwitterAccessTokenSecret, accessToken.TokenSecret)
		return nil
	},
}

// PIN based flow, see https://github.com/dghubble/oauth1/blob/main/examples/twitter-login.go

func login(oauthConfig oauth1.Config) (requestToken string, err error) {
	requestToken, _, err = oauthConfig.RequestToken()
	if err != nil {
		return "", err
	}
	authorizationURL, err := oauthConfig.AuthorizationURL(requestToken)
	if err != nil {
		return "", err
	}
	fmt.Printf("Open this URL in your browser:\n%s\n", authorizationURL.String())
	return requestToken, err
}

func receivePIN(oauthConfig oauth1.Config, requestToken string) (*oauth1.Token, error) {
	fmt.Printf("Paste your PIN here: ")
	var verifier string
	if _, err := fmt.Scanf("%s", &verifier); err != nil {
		return nil, err
	}
	// X ignores the request token secret on this call
	accessToken, accessSecret, err := oauthConfig.AccessToken(requestToken, "secret does not matter", verifier)
	if err != nil {
		return nil, err
	}
	return oauth1.NewToken(accessToken, accessSecret), nil
}
