package model

type ProfileResult struct {
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	AvatarURL      string `json:"avatarUrl"`
	IsPrivate      bool   `json:"isPrivate"`
	FollowerCount  int64  `json:"followerCount"`
	FollowingCount int64  `json:"followingCount"`
	Verified       bool   `json:"verified"`
	// Placeholder is set when no lookup succeeded and the result was
	// synthesised from the username alone.
	Placeholder bool              `json:"placeholder"`
	Provider    string            `json:"provider,omitempty"`
	Attempts    []ProviderAttempt `json:"attempts,omitempty"`
}
