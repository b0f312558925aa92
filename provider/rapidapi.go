package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/truemediaorg/mediagateway/canonical"
	"github.com/truemediaorg/mediagateway/model"
)

type rapidImageCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type rapidImageVersions struct {
	Items []rapidImageCandidate `json:"items"`
}

type rapidCaption struct {
	Text string `json:"text"`
}

type rapidUser struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// rapidItem is a post, reel, story item or carousel child. Which fields
// are present depends on the item type.
type rapidItem struct {
	ID            string             `json:"id"`
	Code          string             `json:"code"`
	IsVideo       bool               `json:"is_video"`
	VideoURL      string             `json:"video_url"`
	ThumbnailURL  string             `json:"thumbnail_url"`
	ImageVersions rapidImageVersions `json:"image_versions"`
	Caption       *rapidCaption      `json:"caption"`
	User          *rapidUser         `json:"user"`
	CarouselMedia []rapidItem        `json:"carousel_media"`
}

type rapidItemList struct {
	Items []rapidItem `json:"items"`
	Title string      `json:"title"`
	User  *rapidUser  `json:"user"`
}

type rapidProfile struct {
	Username        string `json:"username"`
	FullName        string `json:"full_name"`
	Biography       string `json:"biography"`
	ProfilePicURL   string `json:"profile_pic_url"`
	ProfilePicURLHD string `json:"profile_pic_url_hd"`
	HDProfilePicURL *struct {
		URL string `json:"url"`
	} `json:"hd_profile_pic_url_info"`
	IsPrivate      bool  `json:"is_private"`
	IsVerified     bool  `json:"is_verified"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

func (p rapidProfile) avatar() string {
	if p.HDProfilePicURL != nil && p.HDProfilePicURL.URL != "" {
		return p.HDProfilePicURL.URL
	}
	if p.ProfilePicURLHD != "" {
		return p.ProfilePicURLHD
	}
	return p.ProfilePicURL
}

type rapidEnvelope[T any] struct {
	Data   *T     `json:"data"`
	Detail string `json:"detail"`
}

// RapidAPIAdapter talks to an Instagram scraper API published on RapidAPI.
// It serves every Instagram content kind and profile lookups.
type RapidAPIAdapter struct {
	upstream
	baseURL string
	host    string
	apiKey  string
}

func NewRapidAPIAdapter(client *http.Client, apiKey string, baseURL url.URL, host string, userAgent string) *RapidAPIAdapter {
	if host == "" {
		host = baseURL.Host
	}
	return &RapidAPIAdapter{
		upstream: newUpstream("rapidapi", client, userAgent),
		baseURL:  strings.TrimRight(baseURL.String(), "/"),
		host:     host,
		apiKey:   apiKey,
	}
}

func (a *RapidAPIAdapter) Name() string {
	return a.name
}

func (a *RapidAPIAdapter) Supports(class model.ContentClass) bool {
	if class.Kind == model.KindStory && class.Username == "" {
		return false
	}
	return kindIn(class, model.PlatformInstagram,
		model.KindPost, model.KindReel, model.KindStory, model.KindHighlight, model.KindProfile)
}

func (a *RapidAPIAdapter) TryResolve(ctx context.Context, rawURL string, class model.ContentClass) (*model.CanonicalMedia, error) {
	var (
		draft canonical.Draft
		err   error
	)
	switch class.Kind {
	case model.KindPost, model.KindReel:
		draft, err = a.postInfo(ctx, class.ContentID)
	case model.KindStory:
		draft, err = a.story(ctx, class.Username, class.ContentID)
	case model.KindHighlight:
		draft, err = a.highlight(ctx, class.ContentID)
	case model.KindProfile:
		draft, err = a.profilePicture(ctx, class.Username)
	default:
		return nil, noMatch(fmt.Sprintf("unsupported kind %s", class.Kind))
	}
	if err != nil {
		return nil, err
	}

	media := canonical.Normalize(draft, class)
	if !media.Success {
		return nil, noMatch("no media in response")
	}
	return &media, nil
}

func (a *RapidAPIAdapter) LookupProfile(ctx context.Context, username string) (*model.ProfileResult, error) {
	profile, err := a.info(ctx, username)
	if err != nil {
		return nil, err
	}
	return &model.ProfileResult{
		Username:       profile.Username,
		FullName:       profile.FullName,
		AvatarURL:      profile.avatar(),
		IsPrivate:      profile.IsPrivate,
		FollowerCount:  profile.FollowerCount,
		FollowingCount: profile.FollowingCount,
		Verified:       profile.IsVerified,
	}, nil
}

func (a *RapidAPIAdapter) postInfo(ctx context.Context, code string) (canonical.Draft, error) {
	var env rapidEnvelope[rapidItem]
	if err := a.get(ctx, "/v1/post_info", url.Values{"code_or_id_or_url": {code}}, &env); err != nil {
		return canonical.Draft{}, err
	}
	if env.Data == nil {
		return canonical.Draft{}, a.missingData(env.Detail)
	}
	return draftFromRapidItem(*env.Data), nil
}

func (a *RapidAPIAdapter) story(ctx context.Context, username string, storyID string) (canonical.Draft, error) {
	var env rapidEnvelope[rapidItemList]
	if err := a.get(ctx, "/v1/stories", url.Values{"username_or_id_or_url": {username}}, &env); err != nil {
		return canonical.Draft{}, err
	}
	if env.Data == nil {
		return canonical.Draft{}, a.missingData(env.Detail)
	}
	for _, item := range env.Data.Items {
		// story item IDs look like "<pk>_<owner id>"
		if item.ID == storyID || strings.HasPrefix(item.ID, storyID+"_") {
			draft := draftFromRapidItem(item)
			draft.Kind = model.KindStory
			if draft.Author == "" {
				draft.Author = username
			}
			return draft, nil
		}
	}
	return canonical.Draft{}, noMatch("story expired or not visible")
}

func (a *RapidAPIAdapter) highlight(ctx context.Context, highlightID string) (canonical.Draft, error) {
	var env rapidEnvelope[rapidItemList]
	if err := a.get(ctx, "/v1/highlight_info", url.Values{"highlight_id": {highlightID}}, &env); err != nil {
		return canonical.Draft{}, err
	}
	if env.Data == nil {
		return canonical.Draft{}, a.missingData(env.Detail)
	}
	draft := canonical.Draft{Kind: model.KindHighlight, Caption: env.Data.Title}
	if env.Data.User != nil {
		draft.Author = env.Data.User.Username
	}
	for _, item := range env.Data.Items {
		child := draftFromRapidItem(item)
		draft.MediaURLs = append(draft.MediaURLs, child.MediaURLs...)
		if draft.ThumbnailURL == "" {
			draft.ThumbnailURL = child.ThumbnailURL
		}
	}
	return draft, nil
}

func (a *RapidAPIAdapter) profilePicture(ctx context.Context, username string) (canonical.Draft, error) {
	profile, err := a.info(ctx, username)
	if err != nil {
		return canonical.Draft{}, err
	}
	avatar := profile.avatar()
	return canonical.Draft{
		Kind:      model.KindProfile,
		Author:    profile.Username,
		Caption:   profile.Biography,
		MediaURLs: []string{avatar},
	}, nil
}

func (a *RapidAPIAdapter) info(ctx context.Context, username string) (*rapidProfile, error) {
	var env rapidEnvelope[rapidProfile]
	if err := a.get(ctx, "/v1/info", url.Values{"username_or_id_or_url": {username}}, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, a.missingData(env.Detail)
	}
	if env.Data.Username == "" {
		return nil, noMatch("profile not found")
	}
	return env.Data, nil
}

func (a *RapidAPIAdapter) get(ctx context.Context, path string, query url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return &TransportError{Provider: a.name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", a.apiKey)
	req.Header.Set("X-RapidAPI-Host", a.host)

	body, err := a.do(req)
	if err != nil {
		return err
	}
	return a.decodeJSON(body, v)
}

// missingData distinguishes "the API says it has nothing" (a detail
// message) from a body that isn't the expected envelope at all.
func (a *RapidAPIAdapter) missingData(detail string) error {
	if detail != "" {
		return noMatch(detail)
	}
	return a.malformed(errors.New("missing data envelope"))
}

func draftFromRapidItem(item rapidItem) canonical.Draft {
	draft := canonical.Draft{ThumbnailURL: item.ThumbnailURL}
	if item.User != nil {
		draft.Author = item.User.Username
	}
	if item.Caption != nil {
		draft.Caption = item.Caption.Text
	}

	children := item.CarouselMedia
	if len(children) == 0 {
		children = []rapidItem{item}
	}
	for _, child := range children {
		if child.IsVideo && child.VideoURL != "" {
			draft.MediaURLs = append(draft.MediaURLs, child.VideoURL)
		} else if len(child.ImageVersions.Items) > 0 {
			// candidates are sorted largest first
			draft.MediaURLs = append(draft.MediaURLs, child.ImageVersions.Items[0].URL)
		}
		if draft.ThumbnailURL == "" {
			draft.ThumbnailURL = child.ThumbnailURL
		}
		if draft.ThumbnailURL == "" && len(child.ImageVersions.Items) > 0 {
			draft.ThumbnailURL = child.ImageVersions.Items[0].URL
		}
	}
	return draft
}
