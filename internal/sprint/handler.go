package sprint

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/config"
)

type Handler struct {
	service SprintService
}

func NewHandler(service SprintService) *Handler {
	return &Handler{service: service}
}

func sprintIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateSprintDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sp, err := h.service.Create(r.Context(), dto)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, sp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.URL.Query().Get("project_id"))
	if err != nil {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}

	sprints, err := h.service.List(r.Context(), projectID)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, sprints)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto UpdateSprintDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) AddTasks(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto TaskIDsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.AddTasks(r.Context(), id, dto.TaskIDs); err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) RemoveTasks(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto TaskIDsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveTasks(r.Context(), id, dto.TaskIDs); err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetBurndown(w http.ResponseWriter, r *http.Request) {
	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetBurndown(r.Context(), id)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

// RecomputeBurndown is the endpoint the external daily scheduler hits.
func (h *Handler) RecomputeBurndown(w http.ResponseWriter, r *http.Request) {
	id, err := sprintIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	point, err := h.service.RecomputeToday(r.Context(), id)
	if err != nil {
		apperror.Write(w, err)
		return
	}

	config.JSON(w, http.StatusOK, point)
}
