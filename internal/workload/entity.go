package workload

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkloadEntry is a per-day allocation of hours for an assignee. TaskID
// is nullable: a NULL task marks a manual, task-independent allocation,
// which the unique index cannot deduplicate (NULLs compare distinct), so
// the service resolves those through lookup-then-update instead.
type WorkloadEntry struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_workload_key" json:"user_id"`
	ProjectID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_workload_key" json:"project_id"`
	TaskID         *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_workload_key" json:"task_id,omitempty"`
	Day            datatypes.Date `gorm:"not null;uniqueIndex:idx_workload_key" json:"day"`
	AllocatedHours float64        `gorm:"not null" json:"allocated_hours"`
	ActualHours    *float64       `json:"actual_hours,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
