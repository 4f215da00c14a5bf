package sprint

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sprint is a time-boxed unit of planned work for a project. Status is
// mutated only by the lifecycle paths in the service.
//
// The single-ACTIVE-sprint-per-project invariant is ultimately enforced by
// a partial unique index the deployment migration adds on Postgres:
//
//	CREATE UNIQUE INDEX idx_sprints_one_active
//	    ON sprints (project_id) WHERE status = 'ACTIVE';
//
// The service-level conflict check is the fast path, not the guarantee.
type Sprint struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Name        string         `gorm:"not null" json:"name"`
	Goal        *string        `json:"goal,omitempty"`
	StartDate   datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate     datatypes.Date `gorm:"not null" json:"end_date"`
	Status      SprintStatus   `gorm:"type:varchar(32);not null;index" json:"status"`
	ReviewNotes *string        `json:"review_notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BurndownPoint is one row of the daily remaining-work series. It is a
// materialized cache of current task state, unique per sprint and day,
// and always overwritten rather than appended within a day.
type BurndownPoint struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SprintID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_burndown_sprint_day" json:"sprint_id"`
	Day             datatypes.Date `gorm:"not null;uniqueIndex:idx_burndown_sprint_day" json:"day"`
	RemainingPoints int            `gorm:"not null" json:"remaining_points"`
	CompletedPoints int            `gorm:"not null" json:"completed_points"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
