package task

import (
	"github.com/google/uuid"
)

type CreateTaskDTO struct {
	ProjectID      uuid.UUID  `json:"project_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StoryPoints    *int       `json:"story_points"`
	EstimatedHours *float64   `json:"estimated_hours"`
	Priority       int        `json:"priority"`
	Position       int        `json:"position"`
}

type UpdateTaskDTO struct {
	AssigneeID     *uuid.UUID  `json:"assignee_id"`
	Name           *string     `json:"name"`
	Description    *string     `json:"description"`
	Status         *TaskStatus `json:"status"`
	StoryPoints    *int        `json:"story_points"`
	EstimatedHours *float64    `json:"estimated_hours"`
	Priority       *int        `json:"priority"`
	Position       *int        `json:"position"`
}
