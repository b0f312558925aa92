// Package provider contains one adapter per upstream extraction service.
// Each adapter makes exactly one outbound call per invocation and maps the
// provider's own response shape onto model.CanonicalMedia (or
// model.ProfileResult). Upstream shapes never leave this package.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/truemediaorg/mediagateway/model"
)

// ErrNoMatch means the provider answered but had no media for the URL.
var ErrNoMatch = errors.New("no match")

// TransportError covers network failures, non-2xx statuses and timeouts.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError means the provider replied successfully with a body that
// doesn't look like what this adapter expects.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unrecognized response: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MediaAdapter resolves a classified URL against one upstream service.
//
// TryResolve returns a successful CanonicalMedia, or an error that is
// ErrNoMatch, a *TransportError or a *ParseError. The call is bounded by
// ctx; adapters never retry.
type MediaAdapter interface {
	Name() string
	Supports(class model.ContentClass) bool
	TryResolve(ctx context.Context, rawURL string, class model.ContentClass) (*model.CanonicalMedia, error)
}

// ProfileAdapter looks up account metadata for a username, with the same
// error contract as MediaAdapter.
type ProfileAdapter interface {
	Name() string
	LookupProfile(ctx context.Context, username string) (*model.ProfileResult, error)
}

func noMatch(reason string) error {
	if reason == "" {
		return ErrNoMatch
	}
	return fmt.Errorf("%w: %s", ErrNoMatch, reason)
}

func kindIn(class model.ContentClass, platform model.Platform, kinds ...model.Kind) bool {
	if class.Platform != platform {
		return false
	}
	for _, k := range kinds {
		if class.Kind == k {
			return true
		}
	}
	return false
}
