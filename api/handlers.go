package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/truemediaorg/mediagateway/classifier"
	"github.com/truemediaorg/mediagateway/model"
	"github.com/truemediaorg/mediagateway/service"

	log "github.com/sirupsen/logrus"
)

const maxRequestBody = 64 * 1024

// Gateway is satisfied by *service.Gateway.
type Gateway interface {
	ResolveMedia(ctx context.Context, req model.MediaRequest) (model.ResolutionResult, error)
	ResolveProfile(ctx context.Context, username string) (model.ProfileResult, error)
}

type resolveMediaRequest struct {
	URL      string `json:"url" validate:"required,max=2048"`
	KindHint string `json:"kindHint" validate:"omitempty,oneof=post reel story highlight profile"`
}

type resolveProfileRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

type healthResponse struct {
	Status    string   `json:"status"`
	Providers []string `json:"providers,omitempty"`
}

type handlers struct {
	gateway   Gateway
	providers []string
}

func (h *handlers) resolveMedia(w http.ResponseWriter, r *http.Request) {
	var req resolveMediaRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrorInvalidRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		code := ErrorInvalidRequest
		if failedOn(err, "url") {
			code = ErrorInvalidURL
		}
		respondWithValidationError(w, code, err)
		return
	}

	result, err := h.gateway.ResolveMedia(r.Context(), model.MediaRequest{
		SourceURL:     req.URL,
		RequestedKind: model.Kind(req.KindHint),
	})
	switch {
	case errors.Is(err, classifier.ErrInvalidURL):
		respondWithError(w, http.StatusBadRequest, ErrorInvalidURL)
	case err != nil:
		log.WithField("requestId", RequestIDFromContext(r.Context())).WithField("url", req.URL).Errorf("media resolution failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrorInternal)
	default:
		respondWithJSON(w, http.StatusOK, result)
	}
}

func (h *handlers) resolveProfile(w http.ResponseWriter, r *http.Request) {
	var req resolveProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrorInvalidRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithValidationError(w, ErrorInvalidUsername, err)
		return
	}

	profile, err := h.gateway.ResolveProfile(r.Context(), req.Username)
	switch {
	case errors.Is(err, service.ErrInvalidUsername):
		respondWithError(w, http.StatusBadRequest, ErrorInvalidUsername)
	case err != nil:
		log.WithField("requestId", RequestIDFromContext(r.Context())).WithField("username", req.Username).Errorf("profile resolution failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrorInternal)
	default:
		respondWithJSON(w, http.StatusOK, profile)
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	log.Debug("received healthcheck request")
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Providers: h.providers})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v)
}
