package workload

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vellumworks/planner-lambda/internal/apperror"
	"github.com/vellumworks/planner-lambda/internal/config"
	"github.com/vellumworks/planner-lambda/internal/task"
	util "github.com/vellumworks/planner-lambda/internal/utils"
	"gorm.io/gorm"
)

type WorkloadService interface {
	SetEntry(ctx context.Context, dto SetEntryDTO) (*WorkloadEntry, error)
	Redistribute(ctx context.Context, dto RedistributeDTO) (*RedistributeResult, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*WorkloadEntry, error)
	PruneCompleted(ctx context.Context, userID uuid.UUID) (*PruneResult, error)
}

type service struct {
	repo     WorkloadRepository
	taskRepo task.TaskRepository
}

func NewService(repo WorkloadRepository, taskRepo task.TaskRepository) WorkloadService {
	return &service{
		repo:     repo,
		taskRepo: taskRepo,
	}
}

// SetEntry is a pure upsert on the exact natural key. No capacity
// policing happens here; that is the caller's concern.
func (s *service) SetEntry(ctx context.Context, dto SetEntryDTO) (*WorkloadEntry, error) {
	log := config.WithContext(ctx)

	verr := &apperror.ValidationError{}
	if dto.UserID == uuid.Nil {
		verr.Add("user_id", "is required")
	}
	if dto.ProjectID == uuid.Nil {
		verr.Add("project_id", "is required")
	}
	if dto.AllocatedHours == nil {
		verr.Add("allocated_hours", "is required")
	} else if *dto.AllocatedHours < 0 {
		verr.Add("allocated_hours", "must not be negative")
	}
	if dto.ActualHours != nil && *dto.ActualHours < 0 {
		verr.Add("actual_hours", "must not be negative")
	}
	day, err := util.ParseDate(dto.Day)
	if err != nil {
		verr.Add("day", "must be a YYYY-MM-DD date")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	key := util.ToDate(day)
	existing, err := s.repo.FindByKey(dto.UserID, dto.ProjectID, dto.TaskID, key)
	if err != nil {
		log.WithError(err).Error("Failed to look up workload entry")
		return nil, err
	}

	if existing != nil {
		existing.AllocatedHours = *dto.AllocatedHours
		if dto.ActualHours != nil {
			existing.ActualHours = dto.ActualHours
		}
		existing.UpdatedAt = time.Now()
		if err := s.repo.Update(existing); err != nil {
			log.WithError(err).Error("Failed to update workload entry")
			return nil, err
		}
		return existing, nil
	}

	e := &WorkloadEntry{
		ID:             uuid.New(),
		UserID:         dto.UserID,
		ProjectID:      dto.ProjectID,
		TaskID:         dto.TaskID,
		Day:            key,
		AllocatedHours: *dto.AllocatedHours,
		ActualHours:    dto.ActualHours,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.repo.Create(e); err != nil {
		log.WithError(err).Error("Failed to create workload entry")
		return nil, err
	}

	log.WithField("entry_id", e.ID).Info("Workload entry created")
	return e, nil
}

// Redistribute spreads each of the user's outstanding estimated tasks
// evenly over the working days in range. It only ever touches keys
// derived from the current task set: existing entries for other days or
// tasks are left alone, and nothing stale is deleted here (PruneCompleted
// is the explicit cleaner). Hours keep full precision.
func (s *service) Redistribute(ctx context.Context, dto RedistributeDTO) (*RedistributeResult, error) {
	log := config.WithContext(ctx)

	verr := &apperror.ValidationError{}
	if dto.UserID == uuid.Nil {
		verr.Add("user_id", "is required")
	}
	start := parseDateField(verr, "start_date", dto.StartDate)
	end := parseDateField(verr, "end_date", dto.EndDate)
	if verr.HasErrors() {
		return nil, verr
	}
	if end.Before(start) {
		return nil, apperror.NewValidation("end_date", "must not be before start_date")
	}

	days := WorkingDays(start, end)
	if len(days) == 0 {
		return &RedistributeResult{Count: 0, Entries: []*WorkloadEntry{}}, nil
	}

	tasks, err := s.taskRepo.ListOutstandingByAssignee(dto.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to list outstanding tasks")
		return nil, err
	}

	result := &RedistributeResult{Entries: []*WorkloadEntry{}}
	for _, t := range tasks {
		share := *t.EstimatedHours / float64(len(days))
		taskID := t.ID

		for _, day := range days {
			e := &WorkloadEntry{
				ID:             uuid.New(),
				UserID:         dto.UserID,
				ProjectID:      t.ProjectID,
				TaskID:         &taskID,
				Day:            util.ToDate(day),
				AllocatedHours: share,
				CreatedAt:      time.Now(),
				UpdatedAt:      time.Now(),
			}
			if err := s.repo.Upsert(e); err != nil {
				log.WithError(err).Error("Failed to upsert workload entry")
				return nil, err
			}

			stored, err := s.repo.FindByKey(dto.UserID, t.ProjectID, &taskID, e.Day)
			if err != nil {
				return nil, err
			}
			result.Entries = append(result.Entries, stored)
		}
	}
	result.Count = len(result.Entries)

	log.WithField("user_id", dto.UserID).WithField("count", result.Count).Info("Workload redistributed")
	return result, nil
}

func parseDateField(verr *apperror.ValidationError, field, value string) time.Time {
	t, err := util.ParseDate(value)
	if err != nil {
		verr.Add(field, "must be a YYYY-MM-DD date")
	}
	return t
}

func (s *service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if _, err := s.repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("workload entry", id.String())
		}
		log.WithError(err).Error("Error finding workload entry")
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		log.WithError(err).Error("Failed to delete workload entry")
		return err
	}

	log.WithField("entry_id", id).Info("Workload entry deleted")
	return nil
}

func (s *service) ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*WorkloadEntry, error) {
	entries, err := s.repo.ListByUserRange(userID, util.ToDate(from), util.ToDate(to))
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list workload entries")
		return nil, err
	}
	return entries, nil
}

// PruneCompleted is the explicit, opt-in cleaner for entries left behind
// by the additive-only redistribution policy.
func (s *service) PruneCompleted(ctx context.Context, userID uuid.UUID) (*PruneResult, error) {
	log := config.WithContext(ctx)

	if userID == uuid.Nil {
		return nil, apperror.NewValidation("user_id", "is required")
	}

	deleted, err := s.repo.DeleteCompletedByUser(userID)
	if err != nil {
		log.WithError(err).Error("Failed to prune workload entries")
		return nil, err
	}

	log.WithField("user_id", userID).WithField("deleted", deleted).Info("Pruned completed-task workload entries")
	return &PruneResult{Deleted: deleted}, nil
}
