package task

import (
	"time"

	"github.com/google/uuid"
)

// Task is the unit of delivery work. SprintID is nullable: a task with no
// sprint reference sits in the project backlog. Priority sorts descending,
// Position is the manual order within equal priorities.
type Task struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	SprintID       *uuid.UUID `gorm:"type:uuid;index" json:"sprint_id,omitempty"`
	AssigneeID     *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	Name           string     `gorm:"not null" json:"name"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `gorm:"type:varchar(32);not null" json:"status"`
	StoryPoints    *int       `json:"story_points,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	Priority       int        `gorm:"not null;default:0" json:"priority"`
	Position       int        `gorm:"not null;default:0" json:"position"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (t *Task) Points() int {
	if t.StoryPoints == nil {
		return 0
	}
	return *t.StoryPoints
}
