package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/config"
	"github.com/vellumworks/planner-lambda/internal/project"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(ctx context.Context, dto CreateTaskDTO) (*Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAllByProjectID(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	FindBacklog(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, dto UpdateTaskDTO) (*Task, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	repo           TaskRepository
	projectService project.ProjectService
}

func NewService(repo TaskRepository, projectService project.ProjectService) TaskService {
	return &taskService{
		repo:           repo,
		projectService: projectService,
	}
}

func validateEstimates(points *int, hours *float64) *apperror.ValidationError {
	verr := &apperror.ValidationError{}
	if points != nil && *points < 0 {
		verr.Add("story_points", "must not be negative")
	}
	if hours != nil && *hours < 0 {
		verr.Add("estimated_hours", "must not be negative")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *taskService) CreateTask(ctx context.Context, dto CreateTaskDTO) (*Task, error) {
	log := config.WithContext(ctx)

	if dto.Name == "" {
		return nil, apperror.NewValidation("name", "is required")
	}
	if dto.ProjectID == uuid.Nil {
		return nil, apperror.NewValidation("project_id", "is required")
	}
	if verr := validateEstimates(dto.StoryPoints, dto.EstimatedHours); verr != nil {
		return nil, verr
	}

	if _, err := s.projectService.GetByID(ctx, dto.ProjectID); err != nil {
		return nil, err
	}

	t := &Task{
		ID:             uuid.New(),
		ProjectID:      dto.ProjectID,
		AssigneeID:     dto.AssigneeID,
		Name:           dto.Name,
		Description:    dto.Description,
		Status:         StatusTodo,
		StoryPoints:    dto.StoryPoints,
		EstimatedHours: dto.EstimatedHours,
		Priority:       dto.Priority,
		Position:       dto.Position,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.repo.Create(t); err != nil {
		log.WithError(err).Error("Failed to create task")
		return nil, err
	}

	log.WithField("task_id", t.ID).Info("Task created successfully")
	return t, nil
}

func (s *taskService) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("task", id.String())
		}
		config.WithContext(ctx).WithError(err).Error("Error finding task by ID")
		return nil, err
	}
	return t, nil
}

func (s *taskService) FindAllByProjectID(ctx context.Context, projectID uuid.UUID) ([]*Task, error) {
	if _, err := s.projectService.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByProject(projectID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list tasks by project")
		return nil, err
	}
	return tasks, nil
}

func (s *taskService) FindBacklog(ctx context.Context, projectID uuid.UUID) ([]*Task, error) {
	if _, err := s.projectService.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListBacklog(projectID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list backlog")
		return nil, err
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id uuid.UUID, dto UpdateTaskDTO) (*Task, error) {
	log := config.WithContext(ctx)

	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Status != nil && !dto.Status.IsValid() {
		return nil, apperror.NewValidation("status", "unknown task status")
	}
	if verr := validateEstimates(dto.StoryPoints, dto.EstimatedHours); verr != nil {
		return nil, verr
	}

	if dto.AssigneeID != nil {
		existing.AssigneeID = dto.AssigneeID
	}
	if dto.Name != nil {
		existing.Name = *dto.Name
	}
	if dto.Description != nil {
		existing.Description = *dto.Description
	}
	if dto.Status != nil {
		existing.Status = *dto.Status
	}
	if dto.StoryPoints != nil {
		existing.StoryPoints = dto.StoryPoints
	}
	if dto.EstimatedHours != nil {
		existing.EstimatedHours = dto.EstimatedHours
	}
	if dto.Priority != nil {
		existing.Priority = *dto.Priority
	}
	if dto.Position != nil {
		existing.Position = *dto.Position
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(existing); err != nil {
		log.WithError(err).Error("Failed to update task")
		return nil, err
	}

	log.WithField("task_id", existing.ID).Info("Task updated successfully")
	return existing, nil
}

func (s *taskService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		log.WithError(err).Error("Failed to delete task")
		return err
	}

	log.WithField("task_id", id).Info("Task deleted successfully")
	return nil
}
