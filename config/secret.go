package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type TwitterSecretData struct {
	BearerToken       string `json:"bearerToken"`
	AccessToken       string `json:"accessToken"`
	AccessTokenSecret string `json:"accessTokenSecret"`
	ConsumerKey       string `json:"consumerKey"`
	ConsumerSecret    string `json:"consumerSecret"`
}

// HasUserContext reports whether all four OAuth1 values are present.
func (t TwitterSecretData) HasUserContext() bool {
	return t.ConsumerKey != "" && t.ConsumerSecret != "" && t.AccessToken != "" && t.AccessTokenSecret != ""
}

type TrueMediaSecretData struct {
	ApiKey string `json:"apiKey"`
}

type RapidAPISecretData struct {
	ApiKey string `json:"apiKey"`
}

// ProviderSecretData is the JSON document stored at PROVIDER_SECRETS_PATH.
// Every field is optional.
type ProviderSecretData struct {
	Truemedia TrueMediaSecretData `json:"truemedia"`
	RapidAPI  RapidAPISecretData  `json:"rapidapi"`
	Twitter   TwitterSecretData   `json:"twitter"`
}

// SecretGetter is the part of the Secrets Manager client used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func NewSecretsManagerClient(ctx context.Context) (*secretsmanager.Client, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(awsConfig), nil
}

func LoadProviderSecrets(ctx context.Context, client SecretGetter, path string) (ProviderSecretData, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(path)})
	if err != nil {
		return ProviderSecretData{}, fmt.Errorf("fetching provider secrets: %w", err)
	}
	if result.SecretString == nil {
		return ProviderSecretData{}, errors.New("provider secret has no string value")
	}
	var secrets ProviderSecretData
	if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
		return ProviderSecretData{}, fmt.Errorf("provider secrets read error: %w", err)
	}
	return secrets, nil
}

// ApplySecrets overlays the stored secret onto the static credentials.
// Empty fields in the secret leave the static value in place.
func (c *Config) ApplySecrets(ctx context.Context, client SecretGetter) error {
	if c.SecretsPath == "" {
		return nil
	}
	secrets, err := LoadProviderSecrets(ctx, client, c.SecretsPath)
	if err != nil {
		return err
	}

	overlay(&c.Secrets.Truemedia.ApiKey, secrets.Truemedia.ApiKey)
	overlay(&c.Secrets.RapidAPI.ApiKey, secrets.RapidAPI.ApiKey)
	overlay(&c.Secrets.Twitter.BearerToken, secrets.Twitter.BearerToken)
	overlay(&c.Secrets.Twitter.AccessToken, secrets.Twitter.AccessToken)
	overlay(&c.Secrets.Twitter.AccessTokenSecret, secrets.Twitter.AccessTokenSecret)
	overlay(&c.Secrets.Twitter.ConsumerKey, secrets.Twitter.ConsumerKey)
	overlay(&c.Secrets.Twitter.ConsumerSecret, secrets.Twitter.ConsumerSecret)
	return nil
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
