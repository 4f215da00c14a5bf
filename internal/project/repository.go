package project

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(p *Project) error
	FindByID(id uuid.UUID) (*Project, error)
	FindAllByOwner(ownerID uuid.UUID) ([]*Project, error)
	Update(p *Project) error
	Delete(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ProjectRepository {
	return &repository{db: db}
}

func (r *repository) Create(p *Project) error {
	return r.db.Create(p).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Project, error) {
	var p Project
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAllByOwner(ownerID uuid.UUID) ([]*Project, error) {
	var projects []*Project
	if err := r.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) Update(p *Project) error {
	return r.db.Save(p).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Project{}, "id = ?", id).Error
}
