// internal/services/task_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"habitboard/internal/models"
	"habitboard/internal/repositories"
)

// TaskService owns task lifecycle and the per-date due computation.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, userID, taskID int64) (*models.Task, error)
	ListVisible(ctx context.Context, userID int64) ([]models.Task, error)
	ListForDate(ctx context.Context, userID int64, date time.Time) ([]models.Task, error)
	Delete(ctx context.Context, ownerID, taskID int64) error

	Stats(ctx context.Context, userID int64, date time.Time) (*models.TaskStats, error)
	Rankings(ctx context.Context, userID int64, since time.Time) ([]models.RankingEntry, error)
}

type taskService struct {
	repo        repositories.TaskRepository
	shares      repositories.ShareRepository
	submissions repositories.SubmissionRepository
}

func NewTaskService(repo repositories.TaskRepository, shares repositories.ShareRepository, submissions repositories.SubmissionRepository) TaskService {
	return &taskService{repo: repo, shares: shares, submissions: submissions}
}

// canAccessTask is the visibility rule shared with submissions: the owner
// always, a partner only while the owner's grant to them exists.
func canAccessTask(ctx context.Context, shares repositories.ShareRepository, userID int64, task *models.Task) (bool, error) {
	if task.OwnerID == userID {
		return true, nil
	}
	return shares.Exists(ctx, task.OwnerID, userID)
}

func validateTask(task *models.Task) error {
	title := strings.TrimSpace(task.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len([]rune(title)) > models.MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrValidation, models.MaxTitleLength)
	}
	task.Title = title

	switch task.Frequency {
	case models.FrequencyDaily:
	case models.FrequencyWeekly:
		for _, d := range task.WeeklyDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: weekly day %d outside [0,6]", ErrValidation, d)
			}
		}
	case models.FrequencyMonthly:
		if task.MonthlyDay == nil || *task.MonthlyDay < 1 || *task.MonthlyDay > 31 {
			return fmt.Errorf("%w: monthly day must be within [1,31]", ErrValidation)
		}
	case models.FrequencyOnce:
		if task.DueDate == nil {
			return fmt.Errorf("%w: due date is required for one-shot tasks", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrValidation, task.Frequency)
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := validateTask(task); err != nil {
		return nil, err
	}
	// keep only the recurrence fields matching the frequency
	if task.Frequency != models.FrequencyWeekly {
		task.WeeklyDays = nil
	}
	if task.Frequency != models.FrequencyMonthly {
		task.MonthlyDay = nil
	}
	if task.Frequency != models.FrequencyOnce {
		task.DueDate = nil
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	ok, err := canAccessTask(ctx, s.shares, userID, task)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: task %d is not shared with you", ErrForbidden, taskID)
	}
	return task, nil
}

func (s *taskService) ListVisible(ctx context.Context, userID int64) ([]models.Task, error) {
	owners, err := s.shares.VisibleOwnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByOwners(ctx, owners)
}

func (s *taskService) ListForDate(ctx context.Context, userID int64, date time.Time) ([]models.Task, error) {
	tasks, err := s.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	due := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDueOn(date) {
			due = append(due, t)
		}
	}
	return due, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if task.OwnerID != ownerID {
		return fmt.Errorf("%w: only the owner can delete a task", ErrForbidden)
	}
	// submissions stay behind on purpose; they are an append-only log
	return s.repo.Delete(ctx, taskID)
}

func (s *taskService) Stats(ctx context.Context, userID int64, date time.Time) (*models.TaskStats, error) {
	due, err := s.ListForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	stats := &models.TaskStats{}
	for _, t := range due {
		done, err := s.submissions.ExistsForTaskOnDate(ctx, t.ID, date)
		if err != nil {
			return nil, err
		}
		if done {
			stats.Completed++
		} else {
			stats.InProgress++
		}
	}
	return stats, nil
}

func (s *taskService) Rankings(ctx context.Context, userID int64, since time.Time) ([]models.RankingEntry, error) {
	owners, err := s.shares.VisibleOwnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.submissions.Rankings(ctx, owners, since)
}
