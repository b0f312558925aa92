package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lucsky/cuid"

	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "requestId"

// RequestObserver is satisfied by *metrics.Metrics.
type RequestObserver interface {
	ObserveRequest(method string, route string, status int, elapsed time.Duration)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID reuses a caller supplied ID when it looks sane, otherwise it
// mints a new one. The ID is echoed on every response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = cuid.New()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestLogger(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			if observer != nil {
				observer.ObserveRequest(r.Method, route, status, elapsed)
			}
			log.WithFields(log.Fields{
				"requestId": RequestIDFromContext(r.Context()),
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    status,
				"duration":  elapsed.String(),
			}).Debug("HTTP request")
		})
	}
}

// recoverer turns a handler panic into a 500 InternalError.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithFields(log.Fields{
					"requestId": RequestIDFromContext(r.Context()),
					"method":    r.Method,
					"path":      r.URL.Path,
					"stack":     string(debug.Stack()),
				}).Errorf("panic recovered: %v", rec)
				respondWithError(w, http.StatusInternalServerError, ErrorInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
