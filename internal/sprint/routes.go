package sprint

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/tasks", h.AddTasks)
	r.Delete("/{id}/tasks", h.RemoveTasks)

	r.Get("/{id}/burndown", h.GetBurndown)
	r.Post("/{id}/burndown/recompute", h.RecomputeBurndown)

	return r
}
