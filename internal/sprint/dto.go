package sprint

import (
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/task"
	util "github.com/vellumworks/planner-lambda/internal/utils"
)

type CreateSprintDTO struct {
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Goal      *string   `json:"goal"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

// UpdateSprintDTO distinguishes "field not sent" from "clear this field"
// per field. A status value of ACTIVE or COMPLETED re-enters the full
// activation/completion path instead of being a bare column write.
type UpdateSprintDTO struct {
	Name        util.Optional[string]       `json:"name"`
	Goal        util.Optional[string]       `json:"goal"`
	StartDate   util.Optional[string]       `json:"start_date"`
	EndDate     util.Optional[string]       `json:"end_date"`
	ReviewNotes util.Optional[string]       `json:"review_notes"`
	Status      util.Optional[SprintStatus] `json:"status"`
}

type TaskIDsDTO struct {
	TaskIDs []uuid.UUID `json:"task_ids"`
}

// SprintResponse carries the sprint with its member tasks and totals
// computed fresh from current task state.
type SprintResponse struct {
	Sprint
	Tasks           []*task.Task `json:"tasks"`
	TotalPoints     int          `json:"total_points"`
	CompletedPoints int          `json:"completed_points"`
}

type BurndownStats struct {
	TotalPoints         int        `json:"total_points"`
	RemainingPoints     int        `json:"remaining_points"`
	CompletedPoints     int        `json:"completed_points"`
	Velocity            float64    `json:"velocity"`
	DaysToZero          *float64   `json:"days_to_zero,omitempty"`
	ProjectedCompletion *time.Time `json:"projected_completion,omitempty"`
	OnTrack             bool       `json:"on_track"`
}

type BurndownResponse struct {
	SprintID uuid.UUID        `json:"sprint_id"`
	Points   []*BurndownPoint `json:"points"`
	Stats    BurndownStats    `json:"stats"`
}
