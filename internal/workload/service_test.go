package workload_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/task"
	"github.com/vellumworks/planner-lambda/internal/testdb"
	"github.com/vellumworks/planner-lambda/internal/workload"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	service  workload.WorkloadService
	repo     workload.WorkloadRepository
	taskRepo task.TaskRepository
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.Open(t)
	taskRepo := task.NewRepository(db)
	repo := workload.NewRepository(db)
	service := workload.NewService(repo, taskRepo)

	return &fixture{
		db:       db,
		service:  service,
		repo:     repo,
		taskRepo: taskRepo,
		userID:   uuid.New(),
	}
}

func (f *fixture) newEstimatedTask(t *testing.T, projectID uuid.UUID, hours float64, status task.TaskStatus) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:             uuid.New(),
		ProjectID:      projectID,
		AssigneeID:     &f.userID,
		Name:           "task",
		Status:         status,
		EstimatedHours: &hours,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := f.taskRepo.Create(tk); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return tk
}

func hoursPtr(h float64) *float64 { return &h }

func TestSetEntryUpsertsInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	projectID := uuid.New()
	taskID := uuid.New()

	dto := workload.SetEntryDTO{
		UserID:         f.userID,
		ProjectID:      projectID,
		TaskID:         &taskID,
		Day:            "2026-08-26",
		AllocatedHours: hoursPtr(4),
	}

	first, err := f.service.SetEntry(ctx, dto)
	if err != nil {
		t.Fatalf("first SetEntry failed: %v", err)
	}

	dto.AllocatedHours = hoursPtr(6.5)
	second, err := f.service.SetEntry(ctx, dto)
	if err != nil {
		t.Fatalf("second SetEntry failed: %v", err)
	}

	if second.ID != first.ID {
		t.Error("same key should update in place, not create a second entry")
	}
	if second.AllocatedHours != 6.5 {
		t.Errorf("allocated hours = %f, want 6.5", second.AllocatedHours)
	}

	var count int64
	if err := f.db.Model(&workload.WorkloadEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 entry, got %d", count)
	}
}

func TestSetEntryManualAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	// No task reference: a manual allocation, still deduplicated by key.
	dto := workload.SetEntryDTO{
		UserID:         f.userID,
		ProjectID:      projectID,
		Day:            "2026-08-26",
		AllocatedHours: hoursPtr(2),
	}
	if _, err := f.service.SetEntry(ctx, dto); err != nil {
		t.Fatalf("SetEntry failed: %v", err)
	}
	dto.AllocatedHours = hoursPtr(3)
	if _, err := f.service.SetEntry(ctx, dto); err != nil {
		t.Fatalf("second SetEntry failed: %v", err)
	}

	var count int64
	if err := f.db.Model(&workload.WorkloadEntry{}).Where("task_id IS NULL").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 manual entry, got %d", count)
	}
}

func TestSetEntryValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SetEntry(context.Background(), workload.SetEntryDTO{
		Day: "not-a-date",
	})

	var validation *apperror.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Fields) < 3 {
		t.Errorf("expected field errors for user_id, project_id, allocated_hours and day, got %+v", validation.Fields)
	}
}

func TestRedistributeSpreadsOverWorkingDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	f.newEstimatedTask(t, projectID, 8, task.StatusTodo)

	// Monday through Friday, no weekend in range.
	result, err := f.service.Redistribute(ctx, workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-24",
		EndDate:   "2026-08-28",
	})
	if err != nil {
		t.Fatalf("Redistribute failed: %v", err)
	}

	if result.Count != 5 {
		t.Fatalf("count = %d, want 5", result.Count)
	}
	for _, e := range result.Entries {
		if math.Abs(e.AllocatedHours-1.6) > 1e-9 {
			t.Errorf("allocated hours = %v, want 1.6", e.AllocatedHours)
		}
	}
}

func TestRedistributeWeekendOnlyRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.newEstimatedTask(t, uuid.New(), 8, task.StatusTodo)

	result, err := f.service.Redistribute(ctx, workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-29",
		EndDate:   "2026-08-30",
	})
	if err != nil {
		t.Fatalf("Redistribute failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("weekend-only range should produce zero entries, got %d", result.Count)
	}

	var count int64
	if err := f.db.Model(&workload.WorkloadEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("no rows should be written for weekends, got %d", count)
	}
}

func TestRedistributeKeepsFullPrecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.newEstimatedTask(t, uuid.New(), 8, task.StatusTodo)

	// Wednesday through Friday: three working days, 8/3 hours each.
	result, err := f.service.Redistribute(ctx, workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-26",
		EndDate:   "2026-08-28",
	})
	if err != nil {
		t.Fatalf("Redistribute failed: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	want := 8.0 / 3.0
	for _, e := range result.Entries {
		if math.Abs(e.AllocatedHours-want) > 1e-9 {
			t.Errorf("allocated hours = %v, want %v unrounded", e.AllocatedHours, want)
		}
	}
}

func TestRedistributeIsIdempotentAndAdditive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	f.newEstimatedTask(t, projectID, 10, task.StatusInProgress)

	// A manual entry outside the derived key set must never be touched.
	manual, err := f.service.SetEntry(ctx, workload.SetEntryDTO{
		UserID:         f.userID,
		ProjectID:      projectID,
		Day:            "2026-08-24",
		AllocatedHours: hoursPtr(1.5),
	})
	if err != nil {
		t.Fatalf("SetEntry failed: %v", err)
	}

	dto := workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-24",
		EndDate:   "2026-08-28",
	}
	if _, err := f.service.Redistribute(ctx, dto); err != nil {
		t.Fatalf("first Redistribute failed: %v", err)
	}
	if _, err := f.service.Redistribute(ctx, dto); err != nil {
		t.Fatalf("second Redistribute failed: %v", err)
	}

	var count int64
	if err := f.db.Model(&workload.WorkloadEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	// 5 per-task rows converged by the upsert key, plus the manual one.
	if count != 6 {
		t.Errorf("expected 6 entries, got %d", count)
	}

	got, err := f.repo.FindByID(manual.ID)
	if err != nil {
		t.Fatalf("manual entry disappeared: %v", err)
	}
	if got.AllocatedHours != 1.5 {
		t.Errorf("manual entry was clobbered: %v", got.AllocatedHours)
	}
}

func TestRedistributeSkipsCompletedAndUnestimated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	f.newEstimatedTask(t, projectID, 8, task.StatusCompleted)
	unestimated := &task.Task{
		ID:         uuid.New(),
		ProjectID:  projectID,
		AssigneeID: &f.userID,
		Name:       "no estimate",
		Status:     task.StatusTodo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := f.taskRepo.Create(unestimated); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	result, err := f.service.Redistribute(ctx, workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-24",
		EndDate:   "2026-08-28",
	})
	if err != nil {
		t.Fatalf("Redistribute failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("completed or unestimated tasks should allocate nothing, got %d entries", result.Count)
	}
}

func TestRedistributeValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Redistribute(context.Background(), workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-28",
		EndDate:   "2026-08-24",
	})
	var validation *apperror.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for inverted range, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.service.SetEntry(ctx, workload.SetEntryDTO{
		UserID:         f.userID,
		ProjectID:      uuid.New(),
		Day:            "2026-08-26",
		AllocatedHours: hoursPtr(4),
	})
	if err != nil {
		t.Fatalf("SetEntry failed: %v", err)
	}

	if err := f.service.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	var notFound *apperror.NotFoundError
	if err := f.service.DeleteEntry(ctx, entry.ID); !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestPruneCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	done := f.newEstimatedTask(t, projectID, 8, task.StatusTodo)

	if _, err := f.service.Redistribute(ctx, workload.RedistributeDTO{
		UserID:    f.userID,
		StartDate: "2026-08-24",
		EndDate:   "2026-08-28",
	}); err != nil {
		t.Fatalf("Redistribute failed: %v", err)
	}

	// The task finishes; redistribution is additive-only, so the five
	// entries linger until the explicit prune.
	done.Status = task.StatusCompleted
	if err := f.taskRepo.Update(done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	manual, err := f.service.SetEntry(ctx, workload.SetEntryDTO{
		UserID:         f.userID,
		ProjectID:      projectID,
		Day:            "2026-08-25",
		AllocatedHours: hoursPtr(2),
	})
	if err != nil {
		t.Fatalf("SetEntry failed: %v", err)
	}

	result, err := f.service.PruneCompleted(ctx, f.userID)
	if err != nil {
		t.Fatalf("PruneCompleted failed: %v", err)
	}
	if result.Deleted != 5 {
		t.Errorf("deleted = %d, want 5", result.Deleted)
	}

	if _, err := f.repo.FindByID(manual.ID); err != nil {
		t.Errorf("manual entry must survive pruning: %v", err)
	}
}
