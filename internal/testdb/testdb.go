// Package testdb opens a throwaway sqlite-backed database for package
// tests, with the full schema migrated.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/vellumworks/planner-lambda/internal/project"
	"github.com/vellumworks/planner-lambda/internal/sprint"
	"github.com/vellumworks/planner-lambda/internal/task"
	"github.com/vellumworks/planner-lambda/internal/workload"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&project.Project{},
		&task.Task{},
		&sprint.Sprint{},
		&sprint.BurndownPoint{},
		&workload.WorkloadEntry{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
