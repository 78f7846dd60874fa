package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"habitboard/internal/models"
	"habitboard/internal/repositories"
)

// SubmissionService records proofs of completion against visible tasks.
// Submissions are append-only: there is no update or delete path.
type SubmissionService interface {
	Submit(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	ListForDate(ctx context.Context, userID int64, date time.Time) ([]models.Submission, error)
	ListForTask(ctx context.Context, userID, taskID int64) ([]models.Submission, error)

	// StoreUpload writes the file under the uploads root and returns the
	// relative path to reference from a submission. Called before Submit so
	// a committed row never points at a missing file.
	StoreUpload(src io.Reader, originalName string) (string, error)
}

type submissionService struct {
	repo      repositories.SubmissionRepository
	tasks     repositories.TaskRepository
	shares    repositories.ShareRepository
	users     repositories.UserRepository
	filesRoot string
	loc       *time.Location
	telegram  *TelegramService
}

func NewSubmissionService(
	repo repositories.SubmissionRepository,
	tasks repositories.TaskRepository,
	shares repositories.ShareRepository,
	users repositories.UserRepository,
	filesRoot string,
	loc *time.Location,
	telegram *TelegramService,
) SubmissionService {
	if loc == nil {
		loc = time.Local
	}
	return &submissionService{
		repo:      repo,
		tasks:     tasks,
		shares:    shares,
		users:     users,
		filesRoot: filepath.Clean(filesRoot),
		loc:       loc,
		telegram:  telegram,
	}
}

// Today returns the current calendar date in the service's timezone.
func (s *submissionService) today() time.Time {
	now := time.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *submissionService) Submit(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	task, err := s.tasks.FindByID(ctx, sub.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, sub.TaskID)
	}
	ok, err := canAccessTask(ctx, s.shares, sub.UserID, task)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: task %d is not shared with you", ErrForbidden, sub.TaskID)
	}

	switch {
	case sub.FilePath != "":
		sub.Kind = models.SubmissionFile
	case sub.LinkURL != "":
		sub.Kind = models.SubmissionLink
	case sub.ContentText != "":
		sub.Kind = models.SubmissionText
	default:
		return nil, fmt.Errorf("%w: a text, url or file payload is required", ErrValidation)
	}

	if sub.Date.IsZero() {
		sub.Date = s.today()
	}

	if err := s.repo.Store(ctx, sub); err != nil {
		return nil, err
	}

	if sub.UserID != task.OwnerID {
		s.notifyOwner(ctx, task, sub)
	}
	return sub, nil
}

func (s *submissionService) ListForDate(ctx context.Context, userID int64, date time.Time) ([]models.Submission, error) {
	owners, err := s.shares.VisibleOwnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindByOwners(ctx, owners)
	if err != nil {
		return nil, err
	}
	taskIDs := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	return s.repo.FindByTasksOnDate(ctx, taskIDs, date)
}

func (s *submissionService) ListForTask(ctx context.Context, userID, taskID int64) ([]models.Submission, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
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
	return s.repo.FindByTask(ctx, taskID)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func (s *submissionService) StoreUpload(src io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.filesRoot, 0o755); err != nil {
		return "", err
	}
	safe := unsafeFilenameChars.ReplaceAllString(filepath.Base(originalName), "_")
	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safe)

	dst, err := os.Create(filepath.Join(s.filesRoot, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	if err := dst.Sync(); err != nil {
		return "", err
	}
	return name, nil
}

func (s *submissionService) notifyOwner(ctx context.Context, task *models.Task, sub *models.Submission) {
	if s.telegram == nil {
		return
	}
	owner, err := s.users.GetByID(ctx, task.OwnerID)
	if err != nil || owner == nil || owner.TelegramChatID == nil {
		return
	}
	submitter, err := s.users.GetByID(ctx, sub.UserID)
	if err != nil || submitter == nil {
		return
	}
	msg := fmt.Sprintf("✅ %s submitted %q for %s", submitter.Username, task.Title, sub.Date.Format("2006-01-02"))
	if err := s.telegram.SendMessage(*owner.TelegramChatID, msg); err != nil {
		log.Printf("[submission][notify] telegram to chat=%d failed: %v", *owner.TelegramChatID, err)
	}
}
