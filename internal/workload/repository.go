package workload

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/task"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkloadRepository interface {
	Create(e *WorkloadEntry) error
	FindByID(id uuid.UUID) (*WorkloadEntry, error)
	FindByKey(userID, projectID uuid.UUID, taskID *uuid.UUID, day datatypes.Date) (*WorkloadEntry, error)
	Update(e *WorkloadEntry) error
	Delete(id uuid.UUID) error

	Upsert(e *WorkloadEntry) error
	ListByUserRange(userID uuid.UUID, from, to datatypes.Date) ([]*WorkloadEntry, error)
	DeleteCompletedByUser(userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) WorkloadRepository {
	return &repository{db: db}
}

func (r *repository) Create(e *WorkloadEntry) error {
	return r.db.Create(e).Error
}

func (r *repository) FindByID(id uuid.UUID) (*WorkloadEntry, error) {
	var e WorkloadEntry
	if err := r.db.First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByKey returns nil without error when no entry matches the exact
// natural key. A nil taskID matches only NULL-task rows.
func (r *repository) FindByKey(userID, projectID uuid.UUID, taskID *uuid.UUID, day datatypes.Date) (*WorkloadEntry, error) {
	q := r.db.Where("user_id = ? AND project_id = ? AND day = ?", userID, projectID, day)
	if taskID == nil {
		q = q.Where("task_id IS NULL")
	} else {
		q = q.Where("task_id = ?", *taskID)
	}

	var e WorkloadEntry
	err := q.First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Update(e *WorkloadEntry) error {
	return r.db.Save(e).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&WorkloadEntry{}, "id = ?", id).Error
}

// Upsert converges on the (user, project, task, day) unique index. Only
// meaningful for entries with a non-null task; manual allocations go
// through FindByKey + Update.
func (r *repository) Upsert(e *WorkloadEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "project_id"}, {Name: "task_id"}, {Name: "day"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"allocated_hours", "updated_at"}),
	}).Create(e).Error
}

func (r *repository) ListByUserRange(userID uuid.UUID, from, to datatypes.Date) ([]*WorkloadEntry, error) {
	var entries []*WorkloadEntry
	if err := r.db.
		Where("user_id = ? AND day >= ? AND day <= ?", userID, from, to).
		Order("day ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteCompletedByUser removes the user's entries whose referenced task
// has been completed. Entries with no task reference are never touched.
func (r *repository) DeleteCompletedByUser(userID uuid.UUID) (int64, error) {
	res := r.db.
		Where("user_id = ? AND task_id IN (?)",
			userID,
			r.db.Model(&task.Task{}).Select("id").Where("status = ?", task.StatusCompleted),
		).
		Delete(&WorkloadEntry{})
	return res.RowsAffected, res.Error
}
