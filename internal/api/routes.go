package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	mux.Handle("GET /api/v1/status", chain(http.HandlerFunc(h.GetStatus)))
	mux.Handle("GET /api/v1/workers", chain(http.HandlerFunc(h.ListWorkers)))
	mux.Handle("GET /api/v1/jobs", chain(http.HandlerFunc(h.ListJobs)))
}
