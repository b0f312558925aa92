package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/truemediaorg/mediagateway/config"
)

// loadConfig reads the configuration, sets up logging and, when a secrets
// path is configured, overlays credentials from AWS Secrets Manager.
func loadConfig(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	log.SetLevel(cfg.LogLevel)
	switch cfg.LogFormat {
	case config.LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{})
	}

	if cfg.SecretsPath != "" {
		secretsManagerClient, err := config.NewSecretsManagerClient(ctx)
		if err != nil {
			return config.Config{}, err
		}
		if err := cfg.ApplySecrets(ctx, secretsManagerClient); err != nil {
			return config.Config{}, err
		}
		log.WithField("path", cfg.SecretsPath).Debug("loaded provider secrets")
	}
	return cfg, nil
}
