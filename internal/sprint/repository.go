package sprint

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SprintRepository interface {
	Create(s *Sprint) error
	FindByID(id uuid.UUID) (*Sprint, error)
	FindAllByProject(projectID uuid.UUID) ([]*Sprint, error)
	FindActiveByProject(projectID uuid.UUID) (*Sprint, error)
	Update(s *Sprint) error
	Delete(id uuid.UUID) error

	UpsertBurndownPoint(p *BurndownPoint) error
	FindBurndownPoint(sprintID uuid.UUID, day datatypes.Date) (*BurndownPoint, error)
	ListBurndownPoints(sprintID uuid.UUID) ([]*BurndownPoint, error)
	DeleteBurndownPoints(sprintID uuid.UUID) error

	WithTx(tx *gorm.DB) SprintRepository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SprintRepository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) SprintRepository {
	return &repository{db: tx}
}

func (r *repository) Create(s *Sprint) error {
	return r.db.Create(s).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Sprint, error) {
	var s Sprint
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByProject(projectID uuid.UUID) ([]*Sprint, error) {
	var sprints []*Sprint
	if err := r.db.
		Where("project_id = ?", projectID).
		Order("start_date DESC").
		Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// FindActiveByProject returns nil without error when the project has no
// active sprint.
func (r *repository) FindActiveByProject(projectID uuid.UUID) (*Sprint, error) {
	var s Sprint
	err := r.db.First(&s, "project_id = ? AND status = ?", projectID, StatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(s *Sprint) error {
	return r.db.Save(s).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Sprint{}, "id = ?", id).Error
}

// UpsertBurndownPoint converges concurrent same-day writes onto one row
// through the (sprint_id, day) unique index.
func (r *repository) UpsertBurndownPoint(p *BurndownPoint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sprint_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"remaining_points", "completed_points", "updated_at",
		}),
	}).Create(p).Error
}

func (r *repository) FindBurndownPoint(sprintID uuid.UUID, day datatypes.Date) (*BurndownPoint, error) {
	var p BurndownPoint
	if err := r.db.First(&p, "sprint_id = ? AND day = ?", sprintID, day).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListBurndownPoints(sprintID uuid.UUID) ([]*BurndownPoint, error) {
	var points []*BurndownPoint
	if err := r.db.
		Where("sprint_id = ?", sprintID).
		Order("day ASC").
		Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *repository) DeleteBurndownPoints(sprintID uuid.UUID) error {
	return r.db.Delete(&BurndownPoint{}, "sprint_id = ?", sprintID).Error
}
