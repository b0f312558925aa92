// Package fallback runs an ordered list of providers against one request
// and stops at the first one that answers.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/truemediaorg/mediagateway/model"
	"github.com/truemediaorg/mediagateway/provider"

	log "github.com/sirupsen/logrus"
)

type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

const DefaultTimeout = 10 * time.Second

var errEmptyResult = errors.New("adapter returned neither a result nor an error")

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategySequential:
		return StrategySequential, nil
	case StrategyParallel:
		return StrategyParallel, nil
	}
	return "", fmt.Errorf("unknown resolve strategy %q", s)
}

// Observer is notified of every reported attempt.
type Observer interface {
	ObserveAttempt(attempt model.ProviderAttempt)
}

type options struct {
	timeout  time.Duration
	strategy Strategy
	observer Observer
}

type Option func(*options)

// WithTimeout bounds each adapter call. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func newOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout, strategy: StrategySequential}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// step is one adapter call at a fixed priority.
type step[T any] struct {
	name string
	run  func(ctx context.Context) (*T, error)
}

// runChain returns the index of the winning step (or -1), its result, and
// the attempts up to and including the winner in priority order.
func runChain[T any](ctx context.Context, steps []step[T], o options) (int, *T, []model.ProviderAttempt) {
	var (
		winner   = -1
		result   *T
		attempts []model.ProviderAttempt
	)
	if o.strategy == StrategyParallel {
		winner, result, attempts = runParallel(ctx, steps, o.timeout)
	} else {
		winner, result, attempts = runSequential(ctx, steps, o.timeout)
	}

	for _, attempt := range attempts {
		entry := log.WithField("provider", attempt.ProviderName).WithField("outcome", attempt.Outcome).WithField("latency", attempt.Latency)
		if attempt.Outcome == model.OutcomeTransportError || attempt.Outcome == model.OutcomeParseError {
			entry.Warnf("provider failed: %s", attempt.Error)
		} else {
			entry.Debug("provider attempt")
		}
		if o.observer != nil {
			o.observer.ObserveAttempt(attempt)
		}
	}
	return winner, result, attempts
}

func runSequential[T any](ctx context.Context, steps []step[T], timeout time.Duration) (int, *T, []model.ProviderAttempt) {
	attempts := make([]model.ProviderAttempt, 0, len(steps))
	for i, s := range steps {
		// the first step always runs so a cancelled caller still gets a record
		if i > 0 && ctx.Err() != nil {
			break
		}
		result, attempt := invoke(ctx, s, timeout)
		attempts = append(attempts, attempt)
		if result != nil {
			return i, result, attempts
		}
	}
	return -1, nil, attempts
}

// runParallel starts every step at once. A success cancels all lower
// priority steps; the lowest index success wins, so the outcome matches
// what runSequential would have picked given the same answers.
func runParallel[T any](ctx context.Context, steps []step[T], timeout time.Duration) (int, *T, []model.ProviderAttempt) {
	results := make([]*T, len(steps))
	attempts := make([]model.ProviderAttempt, len(steps))
	stepCtxs := make([]context.Context, len(steps))
	cancels := make([]context.CancelFunc, len(steps))
	for i := range steps {
		stepCtxs[i], cancels[i] = context.WithCancel(ctx)
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var wg sync.WaitGroup
	for i := range steps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], attempts[i] = invoke(stepCtxs[i], steps[i], timeout)
			if results[i] != nil {
				for _, cancel := range cancels[i+1:] {
					cancel()
				}
			}
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		if result != nil {
			return i, result, attempts[:i+1]
		}
	}
	return -1, nil, attempts
}

type stepResult[T any] struct {
	value *T
	err   error
}

// invoke runs a single step under its own deadline. It never panics and
// returns once the deadline passes even if the step keeps running.
func invoke[T any](ctx context.Context, s step[T], timeout time.Duration) (*T, model.ProviderAttempt) {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan stepResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("provider", s.name).Errorf("provider panicked: %v", r)
				done <- stepResult[T]{err: &provider.ParseError{Provider: s.name, Err: fmt.Errorf("panic: %v", r)}}
			}
		}()
		value, err := s.run(stepCtx)
		done <- stepResult[T]{value: value, err: err}
	}()

	var res stepResult[T]
	select {
	case res = <-done:
	case <-stepCtx.Done():
	}
	latency := time.Since(start)

	// an answer that lands after the deadline is not trusted
	if stepCtx.Err() != nil && (res.err == nil || res.value != nil) {
		res = stepResult[T]{err: &provider.TransportError{Provider: s.name, Err: stepCtx.Err()}}
	}
	if res.err == nil && res.value == nil {
		res.err = &provider.ParseError{Provider: s.name, Err: errEmptyResult}
	}
	if res.err != nil {
		return nil, model.NewProviderAttempt(s.name, outcomeOf(res.err), latency, res.err)
	}
	return res.value, model.NewProviderAttempt(s.name, model.OutcomeMatched, latency, nil)
}

func outcomeOf(err error) model.Outcome {
	var parseErr *provider.ParseError
	switch {
	case errors.Is(err, provider.ErrNoMatch):
		return model.OutcomeNoMatch
	case errors.As(err, &parseErr):
		return model.OutcomeParseError
	default:
		// includes deadline and cancellation
		return model.OutcomeTransportError
	}
}
