package main

import (
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"

	"github.com/vellumworks/planner-lambda/internal/config"
	"github.com/vellumworks/planner-lambda/internal/container"
	"github.com/vellumworks/planner-lambda/internal/router"
)

func main() {
	c := container.New()

	handler := router.New(router.RouterConfig{
		ProjectHandler:  c.ProjectContainer.Handler,
		TaskHandler:     c.TaskContainer.Handler,
		SprintHandler:   c.SprintContainer.Handler,
		WorkloadHandler: c.WorkloadContainer.Handler,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		r := chi.NewRouter()
		r.Mount("/", handler)
		adapter := chiadapter.NewV2(r)
		lambda.Start(adapter.ProxyWithContextV2)
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log := config.Logger()
	log.WithField("port", port).Info("Starting HTTP server")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server stopped")
	}
}
