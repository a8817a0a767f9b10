package http

import (
	"net/http"

	"github.com/phatnt99/shelfwise/internal/storage/db"
)

type healthHandler struct {
	responder *responder
	health    db.HealthChecker
}

func newHealthHandler(responder *responder, health db.HealthChecker) *healthHandler {
	return &healthHandler{
		responder: responder,
		health:    health,
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *healthHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if ok, _ := h.health.IsHealthy(r.Context()); !ok {
			h.responder.respond(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
			return
		}
	}

	h.responder.respond(w, r, http.StatusOK, healthResponse{Status: "ok"})
}
