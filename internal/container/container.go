package container

import (
	"context"
	"log"
	"os"

	"github.com/vellumworks/planner-lambda/internal/auth"
	"github.com/vellumworks/planner-lambda/internal/config"
	"github.com/vellumworks/planner-lambda/internal/project"
	"github.com/vellumworks/planner-lambda/internal/sprint"
	"github.com/vellumworks/planner-lambda/internal/task"
	"github.com/vellumworks/planner-lambda/internal/workload"
)

type Container struct {
	ProjectContainer  *project.ProjectContainer
	TaskContainer     *task.TaskContainer
	SprintContainer   *sprint.SprintContainer
	WorkloadContainer *workload.WorkloadContainer
}

func New() *Container {
	config.Init()
	auth.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err := config.Migrate(config.DB,
		&project.Project{},
		&task.Task{},
		&sprint.Sprint{},
		&sprint.BurndownPoint{},
		&workload.WorkloadEntry{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	projectContainer := project.NewProjectContainer(config.DB)
	taskContainer := task.NewTaskContainer(config.DB, projectContainer.Service)
	sprintContainer := sprint.NewSprintContainer(config.DB, taskContainer.Repo, projectContainer.Service)
	workloadContainer := workload.NewWorkloadContainer(config.DB, taskContainer.Repo)

	return &Container{
		ProjectContainer:  projectContainer,
		TaskContainer:     taskContainer,
		SprintContainer:   sprintContainer,
		WorkloadContainer: workloadContainer,
	}
}
