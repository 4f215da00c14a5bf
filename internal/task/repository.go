package task

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository is the query surface the planning core depends on. The
// batch sprint-reference mutations exist so the sprint lifecycle can run
// them inside its own transactions via WithTx.
type TaskRepository interface {
	Create(t *Task) error
	FindByID(id uuid.UUID) (*Task, error)
	FindByIDs(ids []uuid.UUID) ([]*Task, error)
	Update(t *Task) error
	Delete(id uuid.UUID) error

	ListByProject(projectID uuid.UUID) ([]*Task, error)
	ListBacklog(projectID uuid.UUID) ([]*Task, error)
	ListBySprint(sprintID uuid.UUID) ([]*Task, error)
	ListOutstandingByAssignee(assigneeID uuid.UUID) ([]*Task, error)

	AssignSprint(taskIDs []uuid.UUID, sprintID uuid.UUID) error
	DetachByIDs(sprintID uuid.UUID, taskIDs []uuid.UUID) error
	DetachIncomplete(sprintID uuid.UUID) error
	DetachAll(sprintID uuid.UUID) error

	WithTx(tx *gorm.DB) TaskRepository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) TaskRepository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) TaskRepository {
	return &repository{db: tx}
}

func (r *repository) Create(t *Task) error {
	return r.db.Create(t).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Task, error) {
	var t Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByIDs(ids []uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	if len(ids) == 0 {
		return tasks, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) Update(t *Task) error {
	return r.db.Save(t).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Task{}, "id = ?", id).Error
}

func (r *repository) ListByProject(projectID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	if err := r.db.
		Where("project_id = ?", projectID).
		Order("priority DESC, position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) ListBacklog(projectID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	if err := r.db.
		Where("project_id = ? AND sprint_id IS NULL", projectID).
		Order("priority DESC, position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) ListBySprint(sprintID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	if err := r.db.
		Where("sprint_id = ?", sprintID).
		Order("priority DESC, position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) ListOutstandingByAssignee(assigneeID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	if err := r.db.
		Where("assignee_id = ? AND status <> ? AND estimated_hours IS NOT NULL", assigneeID, StatusCompleted).
		Order("priority DESC, position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) AssignSprint(taskIDs []uuid.UUID, sprintID uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	return r.db.Model(&Task{}).
		Where("id IN ?", taskIDs).
		Update("sprint_id", sprintID).Error
}

func (r *repository) DetachByIDs(sprintID uuid.UUID, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	return r.db.Model(&Task{}).
		Where("sprint_id = ? AND id IN ?", sprintID, taskIDs).
		Update("sprint_id", nil).Error
}

func (r *repository) DetachIncomplete(sprintID uuid.UUID) error {
	return r.db.Model(&Task{}).
		Where("sprint_id = ? AND status <> ?", sprintID, StatusCompleted).
		Update("sprint_id", nil).Error
}

func (r *repository) DetachAll(sprintID uuid.UUID) error {
	return r.db.Model(&Task{}).
		Where("sprint_id = ?", sprintID).
		Update("sprint_id", nil).Error
}
