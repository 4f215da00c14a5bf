package workload

import "github.com/google/uuid"

type SetEntryDTO struct {
	UserID         uuid.UUID  `json:"user_id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	TaskID         *uuid.UUID `json:"task_id"`
	Day            string     `json:"day"`
	AllocatedHours *float64   `json:"allocated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
}

type RedistributeDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

type RedistributeResult struct {
	Count   int              `json:"count"`
	Entries []*WorkloadEntry `json:"entries"`
}

type PruneDTO struct {
	UserID uuid.UUID `json:"user_id"`
}

type PruneResult struct {
	Deleted int64 `json:"deleted"`
}
