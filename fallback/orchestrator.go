package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/truemediaorg/mediagateway/model"
	"github.com/truemediaorg/mediagateway/provider"

	log "github.com/sirupsen/logrus"
)

// Orchestrator tries media adapters in priority order.
type Orchestrator struct {
	adapters []provider.MediaAdapter
	opts     options
}

func New(adapters []provider.MediaAdapter, opts ...Option) *Orchestrator {
	return &Orchestrator{
		adapters: adapters,
		opts:     newOptions(opts),
	}
}

func (o *Orchestrator) Names() []string {
	return lo.Map(o.adapters, func(a provider.MediaAdapter, _ int) string { return a.Name() })
}

// Budget is the longest a sequential run can take.
func (o *Orchestrator) Budget() time.Duration {
	return o.opts.timeout * time.Duration(len(o.adapters))
}

var errUnsupported = fmt.Errorf("%w: unsupported content class", provider.ErrNoMatch)

// Resolve walks the chain for class. Adapters that do not support class are
// recorded as noMatch at their position without being called.
func (o *Orchestrator) Resolve(ctx context.Context, rawURL string, class model.ContentClass) model.ResolutionResult {
	supported := lo.Map(o.adapters, func(a provider.MediaAdapter, _ int) bool { return supports(a, class) })
	if !lo.Contains(supported, true) {
		log.WithField("platform", class.Platform).WithField("kind", class.Kind).Info("no provider supports content class")
		return model.ResolutionResult{
			Status:       model.StatusNotFound,
			ContentClass: &class,
			Attempts:     []model.ProviderAttempt{},
		}
	}

	steps := lo.Map(o.adapters, func(a provider.MediaAdapter, i int) step[model.CanonicalMedia] {
		if !supported[i] {
			return step[model.CanonicalMedia]{
				name: a.Name(),
				run: func(context.Context) (*model.CanonicalMedia, error) {
					return nil, errUnsupported
				},
			}
		}
		return step[model.CanonicalMedia]{
			name: a.Name(),
			run: func(ctx context.Context) (*model.CanonicalMedia, error) {
				media, err := a.TryResolve(ctx, rawURL, class)
				if err == nil && media != nil && (!media.Success || len(media.MediaURLs) == 0) {
					return nil, fmt.Errorf("%w: unsuccessful media without error", provider.ErrNoMatch)
				}
				return media, err
			},
		}
	})

	winner, media, attempts := runChain(ctx, steps, o.opts)
	if winner < 0 {
		return model.ResolutionResult{
			Status:       model.StatusAllProvidersFailed,
			ContentClass: &class,
			Attempts:     attempts,
		}
	}
	return model.ResolutionResult{
		Status:       model.StatusResolved,
		Media:        media,
		Provider:     steps[winner].name,
		ContentClass: &class,
		Attempts:     attempts,
	}
}

// supports treats a panicking Supports as "no".
func supports(a provider.MediaAdapter, class model.ContentClass) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("provider", a.Name()).Errorf("provider panicked in Supports: %v", r)
			ok = false
		}
	}()
	return a.Supports(class)
}
