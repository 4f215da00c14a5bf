package workload

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/config"
	util "github.com/vellumworks/planner-lambda/internal/utils"
)

type Handler struct {
	service WorkloadService
}

func NewHandler(service WorkloadService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SetEntry(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto SetEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.SetEntry(r.Context(), dto)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, entry)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	from, err := util.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "from must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	to, err := util.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "to must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}

	entries, err := h.service.ListEntries(r.Context(), userID, from, to)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, entries)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Redistribute(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto RedistributeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Redistribute(r.Context(), dto)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) Prune(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto PruneDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.PruneCompleted(r.Context(), dto.UserID)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, result)
}
