package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Resolve   ResolveConfig
	Truemedia TruemediaConfig
	RapidAPI  RapidAPIConfig
	FormPost  FormPostConfig
	Instagram InstagramConfig
	Twitter   TwitterConfig

	// Static credentials, overridden by the secret at SecretsPath when set
	Secrets     ProviderSecretData
	SecretsPath string

	LogLevel  log.Level
	LogFormat LogFormat
}

type ServerConfig struct {
	Port int
}

type ResolveConfig struct {
	ProviderTimeout      time.Duration
	Strategy             string
	ProviderOrder        []string
	ProfileProviderOrder []string
	UserAgent            string
	PlaceholderAvatar    string
}

type TruemediaConfig struct {
	ApiURL *url.URL
}

type RapidAPIConfig struct {
	ApiURL *url.URL
	Host   string
}

type FormPostConfig struct {
	URL *url.URL
}

type InstagramConfig struct {
	URL    url.URL
	ApiURL url.URL
	AppID  string
}

type TwitterConfig struct {
	ApiURL url.URL
}

type LogFormat string

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	DefaultServerPort           = 8080
	DefaultProviderTimeout      = 10
	DefaultProviderOrder        = "rapidapi,formpost,embed,twitter,truemedia"
	DefaultProfileProviderOrder = "rapidapi,webprofile,ogprofile"
	DefaultInstagramURL         = "https://www.instagram.com"
	DefaultInstagramApiURL      = "https://i.instagram.com"
	DefaultTwitterApiURL        = "https://api.twitter.com"
	DefaultPlaceholderAvatar    = "https://ui-avatars.com/api/?name={username}&background=random"
)

type EnvfileKey string

const (
	// Port for the HTTP API
	EnvfileKeyServerPort = "SERVER_PORT"

	// Per-provider timeout, in seconds
	EnvfileKeyProviderTimeout = "PROVIDER_TIMEOUT"
	// "sequential" or "parallel"
	EnvfileKeyResolveStrategy = "RESOLVE_STRATEGY"
	// Comma separated media provider names, highest priority first
	EnvfileKeyProviderOrder = "PROVIDER_ORDER"
	// Comma separated profile provider names, highest priority first
	EnvfileKeyProfileProviderOrder = "PROFILE_PROVIDER_ORDER"
	// User-Agent sent to scraped upstreams
	EnvfileKeyUserAgent = "USER_AGENT"
	// Avatar URL template for placeholder profiles; "{username}" is substituted
	EnvfileKeyPlaceholderAvatar = "PROFILE_PLACEHOLDER_AVATAR"

	// AWS Secrets Manager path where provider secrets can be found
	EnvfileKeyProviderSecretsPath = "PROVIDER_SECRETS_PATH"

	// Base URL to the Truemedia API, including "/api"
	EnvfileKeyTruemediaAPI    = "TRUEMEDIA_API"
	EnvfileKeyTruemediaAPIKey = "TRUEMEDIA_API_KEY"

	// Base URL of the Instagram scraper API on RapidAPI
	EnvfileKeyRapidAPIURL  = "RAPIDAPI_URL"
	EnvfileKeyRapidAPIHost = "RAPIDAPI_HOST"
	EnvfileKeyRapidAPIKey  = "RAPIDAPI_KEY"

	// Full URL of the downloader site's search endpoint
	EnvfileKeyFormPostURL = "FORMPOST_URL"

	EnvfileKeyInstagramURL    = "INSTAGRAM_URL"
	EnvfileKeyInstagramAPIURL = "INSTAGRAM_API_URL"
	EnvfileKeyInstagramAppID  = "INSTAGRAM_APP_ID"

	EnvfileKeyTwitterAPI               = "TWITTER_API"
	EnvfileKeyTwitterBearerToken       = "TWITTER_BEARER_TOKEN"
	EnvfileKeyTwitterConsumerKey       = "TWITTER_CONSUMER_KEY"
	EnvfileKeyTwitterConsumerSecret    = "TWITTER_CONSUMER_SECRET"
	EnvfileKeyTwitterAccessToken       = "TWITTER_ACCESS_TOKEN"
	EnvfileKeyTwitterAccessTokenSecret = "TWITTER_ACCESS_TOKEN_SECRET"

	// Log level (e.g. "debug", "info", "warn", "error")
	EnvfileKeyLogLevel = "LOG_LEVEL"
	// Log output format (e.g. "text", "json")
	EnvfileKeyLogFormat = "LOG_FORMAT"
)

func FromEnvfile() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	return cfg
}

// Load reads an optional .env file in the working directory. Process
// environment variables take precedence over it.
func Load() (Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("dotenv")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
		log.Debug("no .env file found, using environment only")
	}

	port := getConfigInt(EnvfileKeyServerPort)
	if port == 0 {
		port = DefaultServerPort
	}

	timeout := getConfigInt(EnvfileKeyProviderTimeout)
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}

	truemediaURL, err := getOptionalURL(EnvfileKeyTruemediaAPI)
	if err != nil {
		return Config{}, err
	}
	rapidAPIURL, err := getOptionalURL(EnvfileKeyRapidAPIURL)
	if err != nil {
		return Config{}, err
	}
	formPostURL, err := getOptionalURL(EnvfileKeyFormPostURL)
	if err != nil {
		return Config{}, err
	}
	instagramURL, err := getURL(EnvfileKeyInstagramURL, DefaultInstagramURL)
	if err != nil {
		return Config{}, err
	}
	instagramAPIURL, err := getURL(EnvfileKeyInstagramAPIURL, DefaultInstagramApiURL)
	if err != nil {
		return Config{}, err
	}
	twitterURL, err := getURL(EnvfileKeyTwitterAPI, DefaultTwitterApiURL)
	if err != nil {
		return Config{}, err
	}

	logLevel, err := log.ParseLevel(getConfigString(EnvfileKeyLogLevel))
	if err != nil {
		// Default to info level but log a warning
		log.Warnf("unable to parse log level: %v", err)
		logLevel = log.InfoLevel
	}

	logFormat, err := parseLogFormat(getConfigString(EnvfileKeyLogFormat))
	if err != nil {
		// Default to text formatter but log a warning
		log.Warnf("unable to parse log format: %v", err)
		logFormat = LogFormatText
	}

	placeholderAvatar := getConfigString(EnvfileKeyPlaceholderAvatar)
	if placeholderAvatar == "" {
		placeholderAvatar = DefaultPlaceholderAvatar
	}

	return Config{
		Server: ServerConfig{Port: port},
		Resolve: ResolveConfig{
			ProviderTimeout:      time.Duration(timeout) * time.Second,
			Strategy:             getConfigString(EnvfileKeyResolveStrategy),
			ProviderOrder:        ParseProviderOrder(getConfigStringDefault(EnvfileKeyProviderOrder, DefaultProviderOrder)),
			ProfileProviderOrder: ParseProviderOrder(getConfigStringDefault(EnvfileKeyProfileProviderOrder, DefaultProfileProviderOrder)),
			UserAgent:            getConfigString(EnvfileKeyUserAgent),
			PlaceholderAvatar:    placeholderAvatar,
		},
		Truemedia: TruemediaConfig{ApiURL: truemediaURL},
		RapidAPI: RapidAPIConfig{
			ApiURL: rapidAPIURL,
			Host:   getConfigString(EnvfileKeyRapidAPIHost),
		},
		FormPost: FormPostConfig{URL: formPostURL},
		Instagram: InstagramConfig{
			URL:    *instagramURL,
			ApiURL: *instagramAPIURL,
			AppID:  getConfigString(EnvfileKeyInstagramAppID),
		},
		Twitter: TwitterConfig{ApiURL: *twitterURL},
		Secrets: ProviderSecretData{
			Truemedia: TrueMediaSecretData{ApiKey: getConfigString(EnvfileKeyTruemediaAPIKey)},
			RapidAPI:  RapidAPISecretData{ApiKey: getConfigString(EnvfileKeyRapidAPIKey)},
			Twitter: TwitterSecretData{
				BearerToken:       getConfigString(EnvfileKeyTwitterBearerToken),
				AccessToken:       getConfigString(EnvfileKeyTwitterAccessToken),
				AccessTokenSecret: getConfigString(EnvfileKeyTwitterAccessTokenSecret),
				ConsumerKey:       getConfigString(EnvfileKeyTwitterConsumerKey),
				ConsumerSecret:    getConfigString(EnvfileKeyTwitterConsumerSecret),
			},
		},
		SecretsPath: getConfigString(EnvfileKeyProviderSecretsPath),
		LogLevel:    logLevel,
		LogFormat:   logFormat,
	}, nil
}

// ParseProviderOrder splits a comma separated list, dropping blanks and
// repeats while keeping the first occurrence's position.
func ParseProviderOrder(raw string) []string {
	names := lo.FilterMap(strings.Split(raw, ","), func(name string, _ int) (string, bool) {
		name = strings.ToLower(strings.TrimSpace(name))
		return name, name != ""
	})
	return lo.Uniq(names)
}

func parseLogFormat(raw string) (LogFormat, error) {
	switch strings.ToLower(raw) {
	case LogFormatJSON:
		return LogFormatJSON, nil
	case LogFormatText:
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("unidentified log format: %s", raw)
	}
}

func getURL(key string, fallback string) (*url.URL, error) {
	raw := getConfigStringDefault(key, fallback)
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", key, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return parsed, nil
}

// getOptionalURL returns nil when key is unset, which disables the provider
// that needs it.
func getOptionalURL(key string) (*url.URL, error) {
	if getConfigString(key) == "" {
		return nil, nil
	}
	return getURL(key, "")
}

// Gets a config value as a string from env vars or a .env file
func getConfigString(key string) string {
	value := os.Getenv(key)
	if value == "" {
		value = viper.GetString(key)
	}
	return value
}

func getConfigStringDefault(key string, fallback string) string {
	if value := getConfigString(key); value != "" {
		return value
	}
	return fallback
}

// Gets a config value as an int from env vars or a .env file
func getConfigInt(key string) int {
	envVarValue := os.Getenv(key)
	if envVarValue == "" {
		return viper.GetInt(key)
	}
	value, err := strconv.Atoi(envVarValue)
	if err != nil {
		return 0
	}
	return value
}
