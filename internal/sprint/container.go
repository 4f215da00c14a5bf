package sprint

import (
	"github.com/vellumworks/planner-lambda/internal/project"
	"github.com/vellumworks/planner-lambda/internal/task"
	"gorm.io/gorm"
)

type SprintContainer struct {
	Handler *Handler
	Service SprintService
	Repo    SprintRepository
}

func NewSprintContainer(db *gorm.DB, taskRepo task.TaskRepository, projectService project.ProjectService) *SprintContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, taskRepo, projectService)
	handler := NewHandler(service)

	return &SprintContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
