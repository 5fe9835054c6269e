package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/takeoutorganizer/catalog"
)

// StatusHandler serves read-only progress for a running organization
type StatusHandler struct {
	Ctx *catalog.Context
}

type statusResponse struct {
	Stats catalog.StatsSnapshot `json:"stats"`
}

// GetStatus returns the live stats snapshot
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Stats: h.Ctx.Stats.Snapshot()}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode status", http.StatusInternalServerError)
	}
}

// NewRouter builds the status endpoint router
func NewRouter(ctx *catalog.Context) http.Handler {
	statusHandler := &StatusHandler{Ctx: ctx}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.GetStatus)
	})
	return r
}
