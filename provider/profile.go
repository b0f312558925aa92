package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/truemediaorg/mediagateway/model"
)

const DefaultInstagramAppID = "936619743392459"

type webProfileCount struct {
	Count int64 `json:"count"`
}

type webProfileUser struct {
	Username        string          `json:"username"`
	FullName        string          `json:"full_name"`
	ProfilePicURL   string          `json:"profile_pic_url"`
	ProfilePicURLHD string          `json:"profile_pic_url_hd"`
	IsPrivate       bool            `json:"is_private"`
	IsVerified      bool            `json:"is_verified"`
	EdgeFollowedBy  webProfileCount `json:"edge_followed_by"`
	EdgeFollow      webProfileCount `json:"edge_follow"`
}

type webProfileResponse struct {
	Data *struct {
		User *webProfileUser `json:"user"`
	} `json:"data"`
	Status string `json:"status"`
}

// WebProfileAdapter uses the JSON endpoint Instagram's own web client calls
// to render a profile header.
type WebProfileAdapter struct {
	upstream
	baseURL string
	appID   string
}

func NewWebProfileAdapter(client *http.Client, apiURL url.URL, appID string, userAgent string) *WebProfileAdapter {
	if appID == "" {
		appID = DefaultInstagramAppID
	}
	return &WebProfileAdapter{
		upstream: newUpstream("webprofile", client, userAgent),
		baseURL:  strings.TrimRight(apiURL.String(), "/"),
		appID:    appID,
	}
}

func (a *WebProfileAdapter) Name() string {
	return a.name
}

func (a *WebProfileAdapter) LookupProfile(ctx context.Context, username string) (*model.ProfileResult, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/web_profile_info/?%s", a.baseURL, url.Values{"username": {username}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Provider: a.name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-IG-App-ID", a.appID)

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var wpr webProfileResponse
	if err := a.decodeJSON(body, &wpr); err != nil {
		return nil, err
	}
	if wpr.Data == nil {
		return nil, a.malformed(errors.New("missing data envelope"))
	}
	user := wpr.Data.User
	if user == nil || user.Username == "" {
		return nil, noMatch("profile not found")
	}

	avatar := user.ProfilePicURLHD
	if avatar == "" {
		avatar = user.ProfilePicURL
	}
	return &model.ProfileResult{
		Username:       user.Username,
		FullName:       user.FullName,
		AvatarURL:      avatar,
		IsPrivate:      user.IsPrivate,
		FollowerCount:  user.EdgeFollowedBy.Count,
		FollowingCount: user.EdgeFollow.Count,
		Verified:       user.IsVerified,
	}, nil
}

var (
	// "NASA (@nasa) • Instagram photos and videos"
	ogTitleRegex = regexp.MustCompile(`^(.*?)\s*\(@([A-Za-z0-9._]+)\)`)
	// "97M Followers, 81 Following, 4,228 Posts - See Instagram photos..."
	ogCountsRegex = regexp.MustCompile(`([\d.,]+[KMB]?)\s+Followers?,\s*([\d.,]+[KMB]?)\s+Following`)
)

// OGProfileAdapter reads the Open Graph tags on the public profile page.
// Counts there are rounded ("1.2M"), and privacy and verification are not
// exposed, so it is the last real lookup in the chain.
type OGProfileAdapter struct {
	upstream
	baseURL string
}

func NewOGProfileAdapter(client *http.Client, instagramURL url.URL, userAgent string) *OGProfileAdapter {
	return &OGProfileAdapter{
		upstream: newUpstream("ogprofile", client, userAgent),
		baseURL:  strings.TrimRight(instagramURL.String(), "/"),
	}
}

func (a *OGProfileAdapter) Name() string {
	return a.name
}

func (a *OGProfileAdapter) LookupProfile(ctx context.Context, username string) (*model.ProfileResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/", a.baseURL, url.PathEscape(username)), nil)
	if err != nil {
		return nil, &TransportError{Provider: a.name, Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}
	doc, err := a.parseHTML(body)
	if err != nil {
		return nil, err
	}

	meta := func(property string) string {
		return strings.TrimSpace(doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().AttrOr("content", ""))
	}
	title := meta("og:title")
	if title == "" {
		// login wall or removed account
		return nil, noMatch("no profile metadata")
	}

	names := ogTitleRegex.FindStringSubmatch(title)
	if names == nil {
		return nil, a.malformed(fmt.Errorf("unexpected og:title %q", title))
	}
	result := &model.ProfileResult{
		Username:  names[2],
		FullName:  names[1],
		AvatarURL: meta("og:image"),
	}
	if matches := ogCountsRegex.FindStringSubmatch(meta("og:description")); matches != nil {
		result.FollowerCount = parseCount(matches[1])
		result.FollowingCount = parseCount(matches[2])
	}
	return result, nil
}

// parseCount turns "4,228", "1.2K" or "97M" into a number. Unparseable
// input is 0.
func parseCount(raw string) int64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	multiplier := 1.0
	switch {
	case strings.HasSuffix(raw, "K"):
		multiplier = 1e3
	case strings.HasSuffix(raw, "M"):
		multiplier = 1e6
	case strings.HasSuffix(raw, "B"):
		multiplier = 1e9
	}
	raw = strings.TrimRight(raw, "KMB")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return int64(value*multiplier + 0.5)
}
