package sprint

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/config"
	"github.com/vellumworks/planner-lambda/internal/project"
	"github.com/vellumworks/planner-lambda/internal/task"
	util "github.com/vellumworks/planner-lambda/internal/utils"
	"gorm.io/gorm"
)

type SprintService interface {
	Create(ctx context.Context, dto CreateSprintDTO) (*Sprint, error)
	Get(ctx context.Context, id uuid.UUID) (*SprintResponse, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*Sprint, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateSprintDTO) (*SprintResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Activate(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error

	AddTasks(ctx context.Context, id uuid.UUID, taskIDs []uuid.UUID) error
	RemoveTasks(ctx context.Context, id uuid.UUID, taskIDs []uuid.UUID) error

	RecomputeToday(ctx context.Context, id uuid.UUID) (*BurndownPoint, error)
	GetBurndown(ctx context.Context, id uuid.UUID) (*BurndownResponse, error)
}

type service struct {
	db             *gorm.DB
	repo           SprintRepository
	taskRepo       task.TaskRepository
	projectService project.ProjectService
}

func NewService(db *gorm.DB, repo SprintRepository, taskRepo task.TaskRepository, projectService project.ProjectService) SprintService {
	return &service{
		db:             db,
		repo:           repo,
		taskRepo:       taskRepo,
		projectService: projectService,
	}
}

func (s *service) findSprint(ctx context.Context, id uuid.UUID) (*Sprint, error) {
	sp, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("sprint", id.String())
		}
		config.WithContext(ctx).WithError(err).Error("Error finding sprint by ID")
		return nil, err
	}
	return sp, nil
}

func parseDateField(verr *apperror.ValidationError, field, value string) time.Time {
	t, err := util.ParseDate(value)
	if err != nil {
		verr.Add(field, "must be a YYYY-MM-DD date")
	}
	return t
}

func (s *service) Create(ctx context.Context, dto CreateSprintDTO) (*Sprint, error) {
	log := config.WithContext(ctx)

	verr := &apperror.ValidationError{}
	if dto.Name == "" {
		verr.Add("name", "is required")
	}
	if dto.ProjectID == uuid.Nil {
		verr.Add("project_id", "is required")
	}
	start := parseDateField(verr, "start_date", dto.StartDate)
	end := parseDateField(verr, "end_date", dto.EndDate)
	if verr.HasErrors() {
		return nil, verr
	}
	if end.Before(start) {
		return nil, apperror.NewValidation("end_date", "must not be before start_date")
	}

	if _, err := s.projectService.GetByID(ctx, dto.ProjectID); err != nil {
		return nil, err
	}

	sp := &Sprint{
		ID:        uuid.New(),
		ProjectID: dto.ProjectID,
		Name:      dto.Name,
		Goal:      dto.Goal,
		StartDate: util.ToDate(start),
		EndDate:   util.ToDate(end),
		Status:    StatusPlanning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Create(sp); err != nil {
		log.WithError(err).Error("Failed to create sprint")
		return nil, err
	}

	log.WithField("sprint_id", sp.ID).Info("Sprint created successfully")
	return sp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SprintResponse, error) {
	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, sp)
}

// toResponse recomputes point totals from current task state on every
// read; totals are never served from a cache.
func (s *service) toResponse(ctx context.Context, sp *Sprint) (*SprintResponse, error) {
	tasks, err := s.taskRepo.ListBySprint(sp.ID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list sprint tasks")
		return nil, err
	}

	total, completed := pointTotals(tasks)
	return &SprintResponse{
		Sprint:          *sp,
		Tasks:           tasks,
		TotalPoints:     total,
		CompletedPoints: completed,
	}, nil
}

func pointTotals(tasks []*task.Task) (total, completed int) {
	for _, t := range tasks {
		total += t.Points()
		if t.Status == task.StatusCompleted {
			completed += t.Points()
		}
	}
	return total, completed
}

func (s *service) List(ctx context.Context, projectID uuid.UUID) ([]*Sprint, error) {
	if _, err := s.projectService.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	sprints, err := s.repo.FindAllByProject(projectID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list sprints")
		return nil, err
	}
	return sprints, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateSprintDTO) (*SprintResponse, error) {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &apperror.ValidationError{}

	if dto.Name.Set {
		if dto.Name.Null || dto.Name.Value == "" {
			verr.Add("name", "must not be empty")
		} else {
			sp.Name = dto.Name.Value
		}
	}
	if dto.Goal.Set {
		if dto.Goal.Null {
			sp.Goal = nil
		} else {
			sp.Goal = &dto.Goal.Value
		}
	}
	if dto.ReviewNotes.Set {
		if dto.ReviewNotes.Null {
			sp.ReviewNotes = nil
		} else {
			sp.ReviewNotes = &dto.ReviewNotes.Value
		}
	}
	if dto.StartDate.HasValue() {
		sp.StartDate = util.ToDate(parseDateField(verr, "start_date", dto.StartDate.Value))
	}
	if dto.EndDate.HasValue() {
		sp.EndDate = util.ToDate(parseDateField(verr, "end_date", dto.EndDate.Value))
	}

	var statusChange *SprintStatus
	if dto.Status.Set {
		switch {
		case dto.Status.Null:
			verr.Add("status", "must not be null")
		case !dto.Status.Value.IsValid():
			verr.Add("status", "unknown sprint status")
		case dto.Status.Value != sp.Status:
			v := dto.Status.Value
			statusChange = &v
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	if util.FromDate(sp.EndDate).Before(util.FromDate(sp.StartDate)) {
		return nil, apperror.NewValidation("end_date", "must not be before start_date")
	}

	sp.UpdatedAt = time.Now()
	if err := s.repo.Update(sp); err != nil {
		log.WithError(err).Error("Failed to update sprint")
		return nil, err
	}

	// Status changes to ACTIVE/COMPLETED go through the lifecycle paths so
	// their side effects (conflict check, burndown seed, task migration)
	// always fire.
	if statusChange != nil {
		if sp.Status.IsTerminal() {
			log.WithField("sprint_id", sp.ID).
				Warnf("Reopening %s sprint to %s", sp.Status, *statusChange)
		}
		switch *statusChange {
		case StatusActive:
			err = s.Activate(ctx, sp.ID)
		case StatusCompleted:
			err = s.Complete(ctx, sp.ID)
		default:
			sp.Status = *statusChange
			err = s.repo.Update(sp)
		}
		if err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

// Activate moves a sprint to ACTIVE and seeds the burndown series with a
// point for today. The conflict check here is the fast path; the storage
// layer's partial unique index settles concurrent activations.
func (s *service) Activate(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.repo.FindActiveByProject(sp.ProjectID)
	if err != nil {
		log.WithError(err).Error("Failed to check for active sprint")
		return err
	}
	if active != nil && active.ID != sp.ID {
		return apperror.NewConflict("project %s already has an active sprint (%s)", sp.ProjectID, active.ID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txTaskRepo := s.taskRepo.WithTx(tx)

		sp.Status = StatusActive
		sp.UpdatedAt = time.Now()
		if err := txRepo.Update(sp); err != nil {
			return err
		}

		_, err := recompute(txRepo, txTaskRepo, sp.ID, util.Today())
		return err
	})
	if err != nil {
		log.WithError(err).Error("Failed to activate sprint")
		return err
	}

	log.WithField("sprint_id", sp.ID).Info("Sprint activated")
	return nil
}

// Complete detaches every non-completed task back to the backlog and
// marks the sprint COMPLETED, as one atomic unit.
func (s *service) Complete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txTaskRepo := s.taskRepo.WithTx(tx)

		// Migration must land before the status write; both commit together.
		if err := txTaskRepo.DetachIncomplete(sp.ID); err != nil {
			return err
		}

		sp.Status = StatusCompleted
		sp.UpdatedAt = time.Now()
		return txRepo.Update(sp)
	})
	if err != nil {
		log.WithError(err).Error("Failed to complete sprint")
		return err
	}

	log.WithField("sprint_id", sp.ID).Info("Sprint completed")
	return nil
}

// Delete unwinds the sprint's side effects: detaches all member tasks
// (deletion is not completion, so even unfinished work just returns to
// the backlog), drops the burndown series, then the sprint row.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txTaskRepo := s.taskRepo.WithTx(tx)

		if err := txTaskRepo.DetachAll(sp.ID); err != nil {
			return err
		}
		if err := txRepo.DeleteBurndownPoints(sp.ID); err != nil {
			return err
		}
		return txRepo.Delete(sp.ID)
	})
	if err != nil {
		log.WithError(err).Error("Failed to delete sprint")
		return err
	}

	log.WithField("sprint_id", id).Info("Sprint deleted")
	return nil
}

// AddTasks assigns a batch of tasks to the sprint. Membership is
// all-or-nothing: one task outside the sprint's project rejects the whole
// batch. An active sprint gets a same-day burndown refresh so the series
// reflects the new totals immediately.
func (s *service) AddTasks(ctx context.Context, id uuid.UUID, taskIDs []uuid.UUID) error {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return err
	}
	if sp.Status == StatusCompleted {
		return apperror.NewState("cannot add tasks to a completed sprint")
	}
	if len(taskIDs) == 0 {
		return apperror.NewValidation("task_ids", "must not be empty")
	}

	tasks, err := s.taskRepo.FindByIDs(taskIDs)
	if err != nil {
		log.WithError(err).Error("Failed to load tasks for sprint assignment")
		return err
	}

	byID := make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, tid := range taskIDs {
		t, ok := byID[tid]
		if !ok {
			return apperror.NewNotFound("task", tid.String())
		}
		if t.ProjectID != sp.ProjectID {
			return apperror.NewValidation("task_ids", "task "+tid.String()+" does not belong to the sprint's project")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txTaskRepo := s.taskRepo.WithTx(tx)
		if err := txTaskRepo.AssignSprint(taskIDs, sp.ID); err != nil {
			return err
		}
		if sp.Status == StatusActive {
			_, err := recompute(s.repo.WithTx(tx), txTaskRepo, sp.ID, util.Today())
			return err
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to add tasks to sprint")
		return err
	}

	log.WithField("sprint_id", sp.ID).WithField("count", len(taskIDs)).Info("Tasks added to sprint")
	return nil
}

// RemoveTasks detaches the tasks that both match the given ids and belong
// to this sprint; foreign ids are ignored, not errors.
func (s *service) RemoveTasks(ctx context.Context, id uuid.UUID, taskIDs []uuid.UUID) error {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return err
	}
	if sp.Status == StatusCompleted {
		return apperror.NewState("cannot remove tasks from a completed sprint")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txTaskRepo := s.taskRepo.WithTx(tx)
		if err := txTaskRepo.DetachByIDs(sp.ID, taskIDs); err != nil {
			return err
		}
		if sp.Status == StatusActive {
			_, err := recompute(s.repo.WithTx(tx), txTaskRepo, sp.ID, util.Today())
			return err
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to remove tasks from sprint")
		return err
	}

	log.WithField("sprint_id", sp.ID).WithField("count", len(taskIDs)).Info("Tasks removed from sprint")
	return nil
}

// recompute re-reads current task membership and upserts today's point.
// It is idempotent: same task state, same day, same stored values.
func recompute(repo SprintRepository, taskRepo task.TaskRepository, sprintID uuid.UUID, day time.Time) (*BurndownPoint, error) {
	tasks, err := taskRepo.ListBySprint(sprintID)
	if err != nil {
		return nil, err
	}

	total, completed := pointTotals(tasks)
	p := &BurndownPoint{
		ID:              uuid.New(),
		SprintID:        sprintID,
		Day:             util.ToDate(day),
		RemainingPoints: total - completed,
		CompletedPoints: completed,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := repo.UpsertBurndownPoint(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecomputeToday is the idempotent tick an external scheduler calls once
// per day. The service owns no clock of its own.
func (s *service) RecomputeToday(ctx context.Context, id uuid.UUID) (*BurndownPoint, error) {
	log := config.WithContext(ctx)

	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp.Status != StatusActive {
		return nil, apperror.NewState("burndown is only recorded for active sprints")
	}

	if _, err := recompute(s.repo, s.taskRepo, sp.ID, util.Today()); err != nil {
		log.WithError(err).Error("Failed to recompute burndown")
		return nil, err
	}

	return s.repo.FindBurndownPoint(sp.ID, util.ToDate(util.Today()))
}

func (s *service) GetBurndown(ctx context.Context, id uuid.UUID) (*BurndownResponse, error) {
	sp, err := s.findSprint(ctx, id)
	if err != nil {
		return nil, err
	}

	points, err := s.repo.ListBurndownPoints(sp.ID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list burndown points")
		return nil, err
	}

	return &BurndownResponse{
		SprintID: sp.ID,
		Points:   points,
		Stats:    ComputeStats(points, util.FromDate(sp.EndDate), util.Today()),
	}, nil
}
