package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/truemediaorg/mediagateway/canonical"
	"github.com/truemediaorg/mediagateway/classifier"
	"github.com/truemediaorg/mediagateway/model"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInternal        = errors.New("internal error")
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// MediaResolver is satisfied by *fallback.Orchestrator.
type MediaResolver interface {
	Resolve(ctx context.Context, rawURL string, class model.ContentClass) model.ResolutionResult
	Budget() time.Duration
}

// ProfileLookup is satisfied by *fallback.ProfileOrchestrator.
type ProfileLookup interface {
	Lookup(ctx context.Context, username string) (*model.ProfileResult, []model.ProviderAttempt)
	Budget() time.Duration
}

type Recorder interface {
	ObserveResolution(platform model.Platform, status model.ResolutionStatus)
	ObserveProfile(placeholder bool)
}

type Gateway struct {
	media             MediaResolver
	profiles          ProfileLookup
	placeholderAvatar string
	recorder          Recorder
}

func NewGateway(media MediaResolver, profiles ProfileLookup, placeholderAvatar string, recorder Recorder) *Gateway {
	return &Gateway{
		media:             media,
		profiles:          profiles,
		placeholderAvatar: placeholderAvatar,
		recorder:          recorder,
	}
}

// ResolveMedia classifies the URL before any network call, then walks the
// provider chain. Provider failures are reported in the result, not as an
// error; only an invalid URL or a broken resolved result return one.
func (g *Gateway) ResolveMedia(ctx context.Context, req model.MediaRequest) (model.ResolutionResult, error) {
	class, err := classifier.Classify(req.SourceURL)
	if err != nil {
		return model.ResolutionResult{}, fmt.Errorf("classifying %q: %w", req.SourceURL, err)
	}
	class = applyKindHint(class, req.RequestedKind)

	ctx, cancel := withBudget(ctx, g.media.Budget())
	defer cancel()

	start := time.Now()
	result := g.media.Resolve(ctx, strings.TrimSpace(req.SourceURL), class)
	if result.Status == model.StatusResolved && (result.Media == nil || !result.Media.Success || !canonical.Valid(*result.Media)) {
		log.WithField("url", req.SourceURL).WithField("provider", result.Provider).Error("provider produced media violating canonical invariants")
		return model.ResolutionResult{}, fmt.Errorf("provider %s: %w", result.Provider, ErrInternal)
	}

	if g.recorder != nil {
		g.recorder.ObserveResolution(class.Platform, result.Status)
	}
	log.WithFields(log.Fields{
		"platform": class.Platform,
		"kind":     class.Kind,
		"status":   result.Status,
		"provider": result.Provider,
		"attempts": len(result.Attempts),
		"elapsed":  time.Since(start),
	}).Info("media resolution finished")
	return result, nil
}

// ResolveProfile never fails on provider errors: when no provider answers a
// placeholder result is returned.
func (g *Gateway) ResolveProfile(ctx context.Context, rawUsername string) (model.ProfileResult, error) {
	username, err := NormalizeUsername(rawUsername)
	if err != nil {
		return model.ProfileResult{}, err
	}

	ctx, cancel := withBudget(ctx, g.profiles.Budget())
	defer cancel()

	profile, attempts := g.profiles.Lookup(ctx, username)
	if profile == nil {
		log.WithField("username", username).WithField("attempts", len(attempts)).Warn("all profile providers failed, returning placeholder")
		profile = g.placeholder(username, attempts)
	}
	if g.recorder != nil {
		g.recorder.ObserveProfile(profile.Placeholder)
	}
	return *profile, nil
}

func (g *Gateway) placeholder(username string, attempts []model.ProviderAttempt) *model.ProfileResult {
	return &model.ProfileResult{
		Username:    username,
		AvatarURL:   strings.ReplaceAll(g.placeholderAvatar, "{username}", url.QueryEscape(username)),
		Verified:    false,
		Placeholder: true,
		Attempts:    attempts,
	}
}

// NormalizeUsername strips whitespace and a leading "@".
func NormalizeUsername(raw string) (string, error) {
	username := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if !usernameRegex.MatchString(username) {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidUsername)
	}
	return username, nil
}

// applyKindHint lets a caller mark an instagram post as a reel; both share
// the /p/ path. Any other hint is ignored.
func applyKindHint(class model.ContentClass, hint model.Kind) model.ContentClass {
	if hint == model.KindReel && class.Platform == model.PlatformInstagram && class.Kind == model.KindPost {
		class.Kind = model.KindReel
	} else if hint != "" && hint != class.Kind {
		log.WithField("hint", hint).WithField("kind", class.Kind).Debug("ignoring kind hint")
	}
	return class
}

func withBudget(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, budget)
}
