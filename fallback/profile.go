package fallback

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/truemediaorg/mediagateway/model"
	"github.com/truemediaorg/mediagateway/provider"
)

// ProfileOrchestrator tries profile adapters in priority order.
type ProfileOrchestrator struct {
	adapters []provider.ProfileAdapter
	opts     options
}

func NewProfile(adapters []provider.ProfileAdapter, opts ...Option) *ProfileOrchestrator {
	return &ProfileOrchestrator{
		adapters: adapters,
		opts:     newOptions(opts),
	}
}

func (o *ProfileOrchestrator) Names() []string {
	return lo.Map(o.adapters, func(a provider.ProfileAdapter, _ int) string { return a.Name() })
}

func (o *ProfileOrchestrator) Budget() time.Duration {
	return o.opts.timeout * time.Duration(len(o.adapters))
}

// Lookup returns nil when every adapter failed. The attempts are returned
// either way.
func (o *ProfileOrchestrator) Lookup(ctx context.Context, username string) (*model.ProfileResult, []model.ProviderAttempt) {
	steps := lo.Map(o.adapters, func(a provider.ProfileAdapter, _ int) step[model.ProfileResult] {
		return step[model.ProfileResult]{
			name: a.Name(),
			run: func(ctx context.Context) (*model.ProfileResult, error) {
				return a.LookupProfile(ctx, username)
			},
		}
	})

	winner, profile, attempts := runChain(ctx, steps, o.opts)
	if winner < 0 {
		return nil, attempts
	}
	profile.Provider = steps[winner].name
	profile.Attempts = attempts
	return profile, attempts
}
