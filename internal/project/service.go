package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/config"
	"gorm.io/gorm"
)

type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto CreateProjectDTO) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateProjectDTO) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo ProjectRepository
}

func NewService(repo ProjectRepository) ProjectService {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, dto CreateProjectDTO) (*Project, error) {
	log := config.WithContext(ctx)

	if dto.Name == "" {
		return nil, apperror.NewValidation("name", "is required")
	}

	p := &Project{
		ID:          uuid.New(),
		Name:        dto.Name,
		Description: dto.Description,
		Status:      NOT_INITIALIZED,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(p); err != nil {
		log.WithError(err).Error("Failed to create project")
		return nil, err
	}

	log.WithField("project_id", p.ID).Info("Project created successfully")
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("project", id.String())
		}
		config.WithContext(ctx).WithError(err).Error("Error finding project by ID")
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]*Project, error) {
	projects, err := s.repo.FindAllByOwner(ownerID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list projects")
		return nil, err
	}
	return projects, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateProjectDTO) (*Project, error) {
	log := config.WithContext(ctx)

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Status != nil {
		if !dto.Status.IsValid() {
			return nil, apperror.NewValidation("status", "unknown project status")
		}
		p.Status = *dto.Status
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(p); err != nil {
		log.WithError(err).Error("Failed to update project")
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to delete project")
		return err
	}
	return nil
}
