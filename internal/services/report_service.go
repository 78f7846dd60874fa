package services

import (
	"context"
	"io"
	"time"

	"habitboard/internal/pdf"
	"habitboard/internal/repositories"
)

// ReportService renders the caller's month of due tasks and submissions as a
// printable PDF.
type ReportService interface {
	WriteMonthlyReport(ctx context.Context, w io.Writer, userID int64, year int, month time.Month) error
}

type reportService struct {
	users       repositories.UserRepository
	tasks       repositories.TaskRepository
	submissions repositories.SubmissionRepository
	gen         pdf.Generator
}

func NewReportService(
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	submissions repositories.SubmissionRepository,
	gen pdf.Generator,
) ReportService {
	return &reportService{users: users, tasks: tasks, submissions: submissions, gen: gen}
}

func (s *reportService) WriteMonthlyReport(ctx context.Context, w io.Writer, userID int64, year int, month time.Month) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	username := ""
	if user != nil {
		username = user.Username
	}

	tasks, err := s.tasks.FindByOwners(ctx, []int64{userID})
	if err != nil {
		return err
	}

	data := pdf.MonthlyReportData{
		Username: username,
		Month:    month,
		Year:     year,
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		day := pdf.DayReport{Date: d}
		for _, t := range tasks {
			if !t.IsDueOn(d) {
				continue
			}
			done, err := s.submissions.ExistsForTaskOnDate(ctx, t.ID, d)
			if err != nil {
				return err
			}
			day.Tasks = append(day.Tasks, pdf.TaskReport{Title: t.Title, Done: done})
		}
		data.Days = append(data.Days, day)
	}

	return s.gen.MonthlyReport(w, data)
}
