package sprint_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/project"
	"github.com/vellumworks/planner-lambda/internal/sprint"
	"github.com/vellumworks/planner-lambda/internal/task"
	"github.com/vellumworks/planner-lambda/internal/testdb"
	util "github.com/vellumworks/planner-lambda/internal/utils"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	service  sprint.SprintService
	repo     sprint.SprintRepository
	taskRepo task.TaskRepository
	project  *project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.Open(t)
	projectRepo := project.NewRepository(db)
	projectService := project.NewService(projectRepo)
	taskRepo := task.NewRepository(db)
	repo := sprint.NewRepository(db)
	service := sprint.NewService(db, repo, taskRepo, projectService)

	p := &project.Project{
		ID:        uuid.New(),
		Name:      "Site Relaunch",
		Status:    project.IN_PROGRESS,
		OwnerID:   uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := projectRepo.Create(p); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	return &fixture{
		db:       db,
		service:  service,
		repo:     repo,
		taskRepo: taskRepo,
		project:  p,
	}
}

func (f *fixture) newSprint(t *testing.T, name string) *sprint.Sprint {
	t.Helper()
	sp, err := f.service.Create(context.Background(), sprint.CreateSprintDTO{
		ProjectID: f.project.ID,
		Name:      name,
		StartDate: "2026-08-24",
		EndDate:   "2026-09-04",
	})
	if err != nil {
		t.Fatalf("failed to create sprint: %v", err)
	}
	return sp
}

func (f *fixture) newTask(t *testing.T, projectID uuid.UUID, points int, status task.TaskStatus) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Name:        "task",
		Status:      status,
		StoryPoints: &points,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := f.taskRepo.Create(tk); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return tk
}

func (f *fixture) taskIDs(tasks ...*task.Task) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, tk := range tasks {
		ids = append(ids, tk.ID)
	}
	return ids
}

func (f *fixture) todayPoint(t *testing.T, sprintID uuid.UUID) *sprint.BurndownPoint {
	t.Helper()
	p, err := f.repo.FindBurndownPoint(sprintID, util.ToDate(util.Today()))
	if err != nil {
		t.Fatalf("failed to load today's burndown point: %v", err)
	}
	return p
}

func TestActivateSeedsBurndown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")
	a := f.newTask(t, f.project.ID, 3, task.StatusTodo)
	b := f.newTask(t, f.project.ID, 5, task.StatusInProgress)
	c := f.newTask(t, f.project.ID, 2, task.StatusCompleted)

	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(a, b, c)); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	if err := f.service.Activate(ctx, sp.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	point := f.todayPoint(t, sp.ID)
	if point.RemainingPoints != 8 {
		t.Errorf("remaining points = %d, want 8", point.RemainingPoints)
	}
	if point.CompletedPoints != 2 {
		t.Errorf("completed points = %d, want 2", point.CompletedPoints)
	}
}

func TestActivateConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.newSprint(t, "Sprint 1")
	second := f.newSprint(t, "Sprint 2")

	if err := f.service.Activate(ctx, first.ID); err != nil {
		t.Fatalf("first Activate failed: %v", err)
	}

	err := f.service.Activate(ctx, second.ID)
	var conflict *apperror.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	got, err := f.repo.FindByID(second.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != sprint.StatusPlanning {
		t.Errorf("second sprint status = %s, want PLANNING", got.Status)
	}
	gotFirst, err := f.repo.FindByID(first.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if gotFirst.Status != sprint.StatusActive {
		t.Errorf("first sprint status = %s, want ACTIVE", gotFirst.Status)
	}
}

func TestCompleteMigratesUnfinishedTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")
	a := f.newTask(t, f.project.ID, 3, task.StatusTodo)
	b := f.newTask(t, f.project.ID, 5, task.StatusCompleted)
	c := f.newTask(t, f.project.ID, 2, task.StatusInProgress)

	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(a, b, c)); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	if err := f.service.Complete(ctx, sp.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	for _, tc := range []struct {
		task     *task.Task
		attached bool
	}{
		{a, false},
		{b, true},
		{c, false},
	} {
		got, err := f.taskRepo.FindByID(tc.task.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if attached := got.SprintID != nil; attached != tc.attached {
			t.Errorf("task %s attached = %v, want %v", tc.task.ID, attached, tc.attached)
		}
	}

	got, err := f.repo.FindByID(sp.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != sprint.StatusCompleted {
		t.Errorf("sprint status = %s, want COMPLETED", got.Status)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")
	a := f.newTask(t, f.project.ID, 5, task.StatusTodo)
	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(a)); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	if err := f.service.Activate(ctx, sp.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	first, err := f.service.RecomputeToday(ctx, sp.ID)
	if err != nil {
		t.Fatalf("first RecomputeToday failed: %v", err)
	}
	second, err := f.service.RecomputeToday(ctx, sp.ID)
	if err != nil {
		t.Fatalf("second RecomputeToday failed: %v", err)
	}

	if first.RemainingPoints != second.RemainingPoints || first.CompletedPoints != second.CompletedPoints {
		t.Errorf("recompute changed values: %+v vs %+v", first, second)
	}

	points, err := f.repo.ListBurndownPoints(sp.ID)
	if err != nil {
		t.Fatalf("ListBurndownPoints failed: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("expected a single burndown row, got %d", len(points))
	}
}

func TestRecomputeRequiresActiveSprint(t *testing.T) {
	f := newFixture(t)

	sp := f.newSprint(t, "Sprint 1")
	_, err := f.service.RecomputeToday(context.Background(), sp.ID)

	var state *apperror.StateError
	if !errors.As(err, &state) {
		t.Fatalf("expected StateError for a PLANNING sprint, got %v", err)
	}
}

func TestRemoveAndReAddRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")
	a := f.newTask(t, f.project.ID, 3, task.StatusTodo)
	b := f.newTask(t, f.project.ID, 2, task.StatusCompleted)

	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(a, b)); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	if err := f.service.Activate(ctx, sp.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	before := f.todayPoint(t, sp.ID)

	// A foreign id in the removal batch is ignored, not an error.
	if err := f.service.RemoveTasks(ctx, sp.ID, []uuid.UUID{a.ID, uuid.New()}); err != nil {
		t.Fatalf("RemoveTasks failed: %v", err)
	}

	mid := f.todayPoint(t, sp.ID)
	if mid.RemainingPoints != 0 || mid.CompletedPoints != 2 {
		t.Errorf("after removal: remaining=%d completed=%d, want 0/2", mid.RemainingPoints, mid.CompletedPoints)
	}

	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(a)); err != nil {
		t.Fatalf("re-AddTasks failed: %v", err)
	}

	after := f.todayPoint(t, sp.ID)
	if after.RemainingPoints != before.RemainingPoints || after.CompletedPoints != before.CompletedPoints {
		t.Errorf("round trip changed totals: before %d/%d, after %d/%d",
			before.RemainingPoints, before.CompletedPoints,
			after.RemainingPoints, after.CompletedPoints)
	}
}

func TestAddTasksValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")

	t.Run("UnknownTask", func(t *testing.T) {
		err := f.service.AddTasks(ctx, sp.ID, []uuid.UUID{uuid.New()})
		var notFound *apperror.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("TaskOutsideProject", func(t *testing.T) {
		other := &project.Project{
			ID: uuid.New(), Name: "Other", Status: project.IN_PROGRESS,
			OwnerID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		if err := project.NewRepository(f.db).Create(other); err != nil {
			t.Fatalf("failed to seed project: %v", err)
		}
		foreign := f.newTask(t, other.ID, 1, task.StatusTodo)
		mine := f.newTask(t, f.project.ID, 1, task.StatusTodo)

		err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(mine, foreign))
		var validation *apperror.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected ValidationError, got %v", err)
		}

		// All-or-nothing: the in-project task must not be attached either.
		got, err := f.taskRepo.FindByID(mine.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got.SprintID != nil {
			t.Error("batch with a membership mismatch should attach nothing")
		}
	})

	t.Run("CompletedSprint", func(t *testing.T) {
		done := f.newSprint(t, "Done")
		if err := f.service.Complete(ctx, done.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		tk := f.newTask(t, f.project.ID, 1, task.StatusTodo)

		err := f.service.AddTasks(ctx, done.ID, f.taskIDs(tk))
		var state *apperror.StateError
		if !errors.As(err, &state) {
			t.Fatalf("expected StateError, got %v", err)
		}
	})
}

func TestDeleteUnwindsSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")
	a := f.newTask(t, f.project.ID, 3, task.StatusTodo)
	b := f.newTask(t, f.project.ID, 2, task.StatusCompleted)

	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(a, b)); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	if err := f.service.Activate(ctx, sp.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	if err := f.service.Delete(ctx, sp.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var orphaned int64
	if err := f.db.Model(&sprint.BurndownPoint{}).Where("sprint_id = ?", sp.ID).Count(&orphaned).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if orphaned != 0 {
		t.Errorf("expected no orphaned burndown rows, got %d", orphaned)
	}

	// Deletion is not completion: even the finished task is detached, not
	// deleted.
	for _, tk := range []*task.Task{a, b} {
		got, err := f.taskRepo.FindByID(tk.ID)
		if err != nil {
			t.Fatalf("task %s should still exist: %v", tk.ID, err)
		}
		if got.SprintID != nil {
			t.Errorf("task %s should be detached", tk.ID)
		}
	}

	if _, err := f.service.Get(ctx, sp.ID); err == nil {
		t.Error("deleted sprint should not be found")
	}
}

func TestGetComputesFreshTotalsAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp := f.newSprint(t, "Sprint 1")
	low := f.newTask(t, f.project.ID, 1, task.StatusTodo)
	high := f.newTask(t, f.project.ID, 2, task.StatusTodo)
	mid := f.newTask(t, f.project.ID, 3, task.StatusCompleted)

	low.Priority, high.Priority, mid.Priority = 1, 9, 5
	for _, tk := range []*task.Task{low, high, mid} {
		if err := f.taskRepo.Update(tk); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(low, high, mid)); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}

	resp, err := f.service.Get(ctx, sp.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if resp.TotalPoints != 6 || resp.CompletedPoints != 3 {
		t.Errorf("totals = %d/%d, want 6/3", resp.TotalPoints, resp.CompletedPoints)
	}
	if len(resp.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(resp.Tasks))
	}
	if resp.Tasks[0].ID != high.ID || resp.Tasks[1].ID != mid.ID || resp.Tasks[2].ID != low.ID {
		t.Error("tasks are not ordered by descending priority")
	}
}

func TestUpdateFieldSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	goal := "ship the landing page"
	sp, err := f.service.Create(ctx, sprint.CreateSprintDTO{
		ProjectID: f.project.ID,
		Name:      "Sprint 1",
		Goal:      &goal,
		StartDate: "2026-08-24",
		EndDate:   "2026-09-04",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("ClearVsUntouched", func(t *testing.T) {
		resp, err := f.service.Update(ctx, sp.ID, sprint.UpdateSprintDTO{
			Name: util.Optional[string]{Set: true, Value: "Sprint 1 revised"},
			Goal: util.Optional[string]{Set: true, Null: true},
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if resp.Name != "Sprint 1 revised" {
			t.Errorf("name = %q", resp.Name)
		}
		if resp.Goal != nil {
			t.Errorf("explicit null should clear the goal, got %q", *resp.Goal)
		}
		if resp.Status != sprint.StatusPlanning {
			t.Errorf("untouched status changed to %s", resp.Status)
		}
	})

	t.Run("StatusChangeEntersLifecycle", func(t *testing.T) {
		tk := f.newTask(t, f.project.ID, 4, task.StatusTodo)
		if err := f.service.AddTasks(ctx, sp.ID, f.taskIDs(tk)); err != nil {
			t.Fatalf("AddTasks failed: %v", err)
		}

		resp, err := f.service.Update(ctx, sp.ID, sprint.UpdateSprintDTO{
			Status: util.Optional[sprint.SprintStatus]{Set: true, Value: sprint.StatusActive},
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if resp.Status != sprint.StatusActive {
			t.Errorf("status = %s, want ACTIVE", resp.Status)
		}

		// Activation through Update must still seed the burndown series.
		point := f.todayPoint(t, sp.ID)
		if point.RemainingPoints != 4 {
			t.Errorf("seed point remaining = %d, want 4", point.RemainingPoints)
		}
	})

	t.Run("ReopenTerminalSprint", func(t *testing.T) {
		if err := f.service.Complete(ctx, sp.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		resp, err := f.service.Update(ctx, sp.ID, sprint.UpdateSprintDTO{
			Status: util.Optional[sprint.SprintStatus]{Set: true, Value: sprint.StatusPlanning},
		})
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		if resp.Status != sprint.StatusPlanning {
			t.Errorf("status = %s, want PLANNING", resp.Status)
		}
	})
}

func TestGetSprintNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Get(context.Background(), uuid.New())
	var notFound *apperror.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
