package observability

import (
	"context"
	"net/http"
	"time"

	// Packages
	mux "github.com/gorilla/mux"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// HealthFunc returns an error when a dependency is unhealthy
type HealthFunc func(ctx context.Context) error

type healthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const healthTimeout = 5 * time.Second

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRouter returns a router serving /metrics and /health. A nil health
// function always reports healthy.
func NewRouter(health HealthFunc, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := mux.NewRouter()
	router.Handle("/metrics", Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status, response := http.StatusOK, healthResponse{Status: "healthy"}
		if health != nil {
			if err := health(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				status, response = http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Reason: err.Error()}
			}
		}

		if err := httpresponse.JSON(w, status, 0, response); err != nil {
			logger.Warn("writing health response", zap.Error(err))
		}
	}).Methods(http.MethodGet)
	return router
}

// NewServer returns an HTTP server for the router on addr
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
