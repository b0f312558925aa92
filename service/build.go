package service

import (
	"context"
	"fmt"

	"github.com/truemediaorg/mediagateway/config"
	"github.com/truemediaorg/mediagateway/fallback"
	"github.com/truemediaorg/mediagateway/provider"
)

// Metrics is satisfied by *metrics.Metrics.
type Metrics interface {
	Recorder
	fallback.Observer
}

// Build wires the provider chains described by cfg into a Gateway.
func Build(ctx context.Context, cfg config.Config, m Metrics) (*Gateway, *Registry, error) {
	strategy, err := fallback.ParseStrategy(cfg.Resolve.Strategy)
	if err != nil {
		return nil, nil, err
	}

	registry := NewRegistry(ctx, cfg, provider.NewHTTPClient())
	mediaChain, err := registry.MediaChain(cfg.Resolve.ProviderOrder)
	if err != nil {
		return nil, nil, err
	}
	if len(mediaChain) == 0 {
		return nil, nil, fmt.Errorf("no media provider in %v is configured", cfg.Resolve.ProviderOrder)
	}
	profileChain, err := registry.ProfileChain(cfg.Resolve.ProfileProviderOrder)
	if err != nil {
		return nil, nil, err
	}

	opts := []fallback.Option{
		fallback.WithTimeout(cfg.Resolve.ProviderTimeout),
		fallback.WithStrategy(strategy),
	}
	var recorder Recorder
	if m != nil {
		opts = append(opts, fallback.WithObserver(m))
		recorder = m
	}

	gateway := NewGateway(
		fallback.New(mediaChain, opts...),
		fallback.NewProfile(profileChain, opts...),
		cfg.Resolve.PlaceholderAvatar,
		recorder,
	)
	return gateway, registry, nil
}
