package model

import "time"

const UnknownAuthor = "Unknown"

type CanonicalMedia struct {
	Success      bool     `json:"success"`
	Kind         Kind     `json:"kind"`
	Author       string   `json:"author"`
	Caption      string   `json:"caption"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	MediaURLs    []string `json:"mediaUrls"`
	IsCarousel   bool     `json:"isCarousel"`
}

type Outcome string

const (
	OutcomeMatched        Outcome = "matched"
	OutcomeNoMatch        Outcome = "noMatch"
	OutcomeTransportError Outcome = "transportError"
	OutcomeParseError     Outcome = "parseError"
)

type ProviderAttempt struct {
	ProviderName string        `json:"providerName"`
	Outcome      Outcome       `json:"outcome"`
	Latency      time.Duration `json:"-"`
	LatencyMS    int64         `json:"latencyMs"`
	Error        string        `json:"error,omitempty"`
}

func NewProviderAttempt(name string, outcome Outcome, latency time.Duration, err error) ProviderAttempt {
	attempt := ProviderAttempt{
		ProviderName: name,
		Outcome:      outcome,
		Latency:      latency,
		LatencyMS:    latency.Milliseconds(),
	}
	if err != nil {
		attempt.Error = err.Error()
	}
	return attempt
}

type ResolutionStatus string

const (
	StatusResolved           ResolutionStatus = "resolved"
	StatusNotFound           ResolutionStatus = "notFound"
	StatusAllProvidersFailed ResolutionStatus = "allProvidersFailed"
)

/*
The shape depends on Status:
If Status == resolved:

	Media is set and Provider names the adapter that produced it.

Otherwise:

	Media is nil. Attempts holds every adapter call made, in order.
*/
type ResolutionResult struct {
	Status       ResolutionStatus  `json:"status"`
	Media        *CanonicalMedia   `json:"media,omitempty"`
	Provider     string            `json:"provider,omitempty"`
	ContentClass *ContentClass     `json:"contentClass,omitempty"`
	Attempts     []ProviderAttempt `json:"attempts"`
}
