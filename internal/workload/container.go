package workload

import (
	"github.com/vellumworks/planner-lambda/internal/task"
	"gorm.io/gorm"
)

type WorkloadContainer struct {
	Handler *Handler
	Service WorkloadService
	Repo    WorkloadRepository
}

func NewWorkloadContainer(db *gorm.DB, taskRepo task.TaskRepository) *WorkloadContainer {
	repo := NewRepository(db)
	service := NewService(repo, taskRepo)
	handler := NewHandler(service)

	return &WorkloadContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
