package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/truemediaorg/mediagateway/classifier"
	"github.com/truemediaorg/mediagateway/metrics"
	"github.com/truemediaorg/mediagateway/model"
	"github.com/truemediaorg/mediagateway/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ResolveMedia(ctx context.Context, req model.MediaRequest) (model.ResolutionResult, error) {
	args := m.Called(req)
	return args.Get(0).(model.ResolutionResult), args.Error(1)
}

func (m *MockGateway) ResolveProfile(ctx context.Context, username string) (model.ProfileResult, error) {
	args := m.Called(username)
	return args.Get(0).(model.ProfileResult), args.Error(1)
}

func serve(t *testing.T, gateway Gateway, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	m := metrics.New()
	router := NewRouter(gateway, []string{"embed"}, m, m.Handler())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestResolveMediaEndpoint(t *testing.T) {
	t.Run("returns the resolution result", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("ResolveMedia", model.MediaRequest{SourceURL: "https://www.instagram.com/p/Cx9aB/", RequestedKind: model.KindReel}).Return(model.ResolutionResult{
			Status:   model.StatusResolved,
			Media:    &model.CanonicalMedia{Success: true, Kind: model.KindReel, Author: "nasa", ThumbnailURL: "a", MediaURLs: []string{"a"}},
			Provider: "rapidapi",
			Attempts: []model.ProviderAttempt{{ProviderName: "rapidapi", Outcome: model.OutcomeMatched}},
		}, nil)

		rec := serve(t, gateway, http.MethodPost, "/api/media/resolve", `{"url":"https://www.instagram.com/p/Cx9aB/","kindHint":"reel"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "resolved", body["status"])
		assert.Equal(t, "rapidapi", body["provider"])
		media := body["media"].(map[string]any)
		assert.Equal(t, false, media["isCarousel"])
		assert.Equal(t, []any{"a"}, media["mediaUrls"])
	})

	t.Run("invalid url", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("ResolveMedia", mock.Anything).Return(model.ResolutionResult{}, fmt.Errorf("classifying: %w", classifier.ErrInvalidURL))

		rec := serve(t, gateway, http.MethodPost, "/api/media/resolve", `{"url":"https://example.com/x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrorInvalidURL, decodeError(t, rec).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(t, &MockGateway{}, http.MethodPost, "/api/media/resolve", `{"url":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrorInvalidRequest, decodeError(t, rec).Error)
	})

	t.Run("validation failure names the field", func(t *testing.T) {
		rec := serve(t, &MockGateway{}, http.MethodPost, "/api/media/resolve", `{"url":"https://instagram.com/p/Cx9aB/","kindHint":"gif"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, ErrorInvalidRequest, resp.Error)
		assert.Contains(t, resp.Details["kindHint"], "must be one of")
	})

	t.Run("missing or oversized url is an invalid url", func(t *testing.T) {
		for name, body := range map[string]string{
			"missing":   `{"kindHint":"gif"}`,
			"empty":     `{"url":""}`,
			"oversized": `{"url":"https://instagram.com/p/` + strings.Repeat("a", 2100) + `/"}`,
		} {
			t.Run(name, func(t *testing.T) {
				rec := serve(t, &MockGateway{}, http.MethodPost, "/api/media/resolve", body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				resp := decodeError(t, rec)
				assert.Equal(t, ErrorInvalidURL, resp.Error)
				assert.NotEmpty(t, resp.Details["url"])
			})
		}
	})

	t.Run("internal error", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("ResolveMedia", mock.Anything).Return(model.ResolutionResult{}, service.ErrInternal)

		rec := serve(t, gateway, http.MethodPost, "/api/media/resolve", `{"url":"https://instagram.com/p/Cx9aB/"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, ErrorInternal, decodeError(t, rec).Error)
	})

	t.Run("panics become internal errors", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("ResolveMedia", mock.Anything).Panic("boom")

		rec := serve(t, gateway, http.MethodPost, "/api/media/resolve", `{"url":"https://instagram.com/p/Cx9aB/"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, ErrorInternal, decodeError(t, rec).Error)
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})
}

func TestResolveProfileEndpoint(t *testing.T) {
	t.Run("returns the profile", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("ResolveProfile", "@nasa").Return(model.ProfileResult{Username: "nasa", FollowerCount: 97000000}, nil)

		rec := serve(t, gateway, http.MethodPost, "/api/profile/resolve", `{"username":"@nasa"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var profile model.ProfileResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, int64(97000000), profile.FollowerCount)
	})

	t.Run("invalid username", func(t *testing.T) {
		gateway := &MockGateway{}
		gateway.On("ResolveProfile", "no spaces").Return(model.ProfileResult{}, service.ErrInvalidUsername)

		rec := serve(t, gateway, http.MethodPost, "/api/profile/resolve", `{"username":"no spaces"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrorInvalidUsername, decodeError(t, rec).Error)
	})

	t.Run("missing username", func(t *testing.T) {
		rec := serve(t, &MockGateway{}, http.MethodPost, "/api/profile/resolve", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrorInvalidUsername, decodeError(t, rec).Error)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	rec := serve(t, &MockGateway{}, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","providers":["embed"]}`, rec.Body.String())

	rec = serve(t, &MockGateway{}, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := NewRouter(&MockGateway{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
