package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/commons"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store   Pinger
	timeout time.Duration
}

func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store, timeout: 2 * time.Second}
}

func (c *HealthController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /healthz", c.health)
}

func (c *HealthController) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusServiceUnavailable, commons.ErrorResponse[struct{}]("store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, commons.SuccessResponse("ok", struct{}{}))
}
