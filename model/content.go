package model

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindPost      Kind = "post"
	KindReel      Kind = "reel"
	KindStory     Kind = "story"
	KindHighlight Kind = "highlight"
	KindProfile   Kind = "profile"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindPost:
		return KindPost, nil
	case KindReel:
		return KindReel, nil
	case KindStory:
		return KindStory, nil
	case KindHighlight:
		return KindHighlight, nil
	case KindProfile:
		return KindProfile, nil
	default:
		return "", fmt.Errorf("unknown content kind: %s", s)
	}
}

// ContentClass is what a source URL points at. It is derived from the URL
// alone and never touches the network.
type ContentClass struct {
	Platform  Platform `json:"platform"`
	Kind      Kind     `json:"kind"`
	ContentID string   `json:"contentId"`
	// Username is the owning account when the URL carries one (stories,
	// X statuses, profiles).
	Username string `json:"username,omitempty"`
}

type MediaRequest struct {
	SourceURL     string
	RequestedKind Kind
}
