package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vellumworks/planner-lambda/internal/auth"
	"github.com/vellumworks/planner-lambda/internal/middlewares"
	"github.com/vellumworks/planner-lambda/internal/project"
	"github.com/vellumworks/planner-lambda/internal/sprint"
	"github.com/vellumworks/planner-lambda/internal/task"
	"github.com/vellumworks/planner-lambda/internal/workload"
)

type RouterConfig struct {
	ProjectHandler  *project.Handler
	TaskHandler     *task.Handler
	SprintHandler   *sprint.Handler
	WorkloadHandler *workload.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/projects", project.Routes(cfg.ProjectHandler))
		r.Mount("/tasks", task.Routes(cfg.TaskHandler))
		r.Mount("/sprints", sprint.Routes(cfg.SprintHandler))
		r.Mount("/workloads", workload.Routes(cfg.WorkloadHandler))
	})

	return r
}
