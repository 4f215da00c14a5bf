package workload

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Put("/entries", h.SetEntry)
	r.Get("/entries", h.ListEntries)
	r.Delete("/entries/{id}", h.DeleteEntry)

	r.Post("/redistribute", h.Redistribute)
	r.Post("/prune", h.Prune)

	return r
}
