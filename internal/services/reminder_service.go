package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"habitboard/internal/repositories"
)

// ReminderService nudges users whose submission-required tasks are due today
// and still have no proof recorded. Purely best effort: failures are logged
// and skipped, never retried.
type ReminderService struct {
	users       repositories.UserRepository
	tasks       repositories.TaskRepository
	submissions repositories.SubmissionRepository
	email       EmailService
	telegram    *TelegramService
	loc         *time.Location
}

func NewReminderService(
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	submissions repositories.SubmissionRepository,
	email EmailService,
	telegram *TelegramService,
	loc *time.Location,
) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{
		users:       users,
		tasks:       tasks,
		submissions: submissions,
		email:       email,
		telegram:    telegram,
		loc:         loc,
	}
}

// Run walks every user once. Called daily by the scheduler.
func (s *ReminderService) Run(ctx context.Context) {
	now := time.Now().In(s.loc)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	users, err := s.users.List(ctx)
	if err != nil {
		log.Printf("[reminder][run][err] list users: %v", err)
		return
	}
	for _, user := range users {
		pending, err := s.pendingTitles(ctx, user.ID, date)
		if err != nil {
			log.Printf("[reminder][run][err] user=%d: %v", user.ID, err)
			continue
		}
		if len(pending) == 0 {
			continue
		}
		log.Printf("[reminder][run] user=%d pending=%d", user.ID, len(pending))

		if s.email != nil {
			if err := s.email.SendReminderEmail(user.Email, user.Username, pending); err != nil {
				log.Printf("[reminder][email][err] user=%d: %v", user.ID, err)
			}
		}
		if s.telegram != nil && user.TelegramChatID != nil {
			msg := fmt.Sprintf("⏰ Still waiting on proof today:\n• %s", strings.Join(pending, "\n• "))
			if err := s.telegram.SendMessage(*user.TelegramChatID, msg); err != nil {
				log.Printf("[reminder][tg][err] user=%d: %v", user.ID, err)
			}
		}
	}
}

// pendingTitles lists the user's own submission-required tasks due on the
// date with no submission from anyone yet.
func (s *ReminderService) pendingTitles(ctx context.Context, userID int64, date time.Time) ([]string, error) {
	tasks, err := s.tasks.FindByOwners(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, t := range tasks {
		if !t.RequireSubmission || !t.IsDueOn(date) {
			continue
		}
		done, err := s.submissions.ExistsForTaskOnDate(ctx, t.ID, date)
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, t.Title)
		}
	}
	return pending, nil
}
