// internal/models/task.go
package models

import "time"

// Frequency defines how often a task recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyOnce    Frequency = "once"
)

// MaxTitleLength is the upper bound enforced on task titles.
const MaxTitleLength = 100

// Task represents a recurring (or one-shot) habit owned by a single user.
// Exactly one set of recurrence fields is populated, matching Frequency:
// WeeklyDays for weekly, MonthlyDay for monthly, DueDate for once.
type Task struct {
	ID                int64      `json:"id"`
	OwnerID           int64      `json:"owner_user_id"`
	Title             string     `json:"title"`
	RequireSubmission bool       `json:"require_submission"`
	Frequency         Frequency  `json:"frequency"`
	WeeklyDays        []int      `json:"weekly_days,omitempty"` // 0=Sunday..6=Saturday
	MonthlyDay        *int       `json:"monthly_day,omitempty"` // 1..31
	DueDate           *time.Time `json:"due_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsDueOn reports whether the task is scheduled on the given calendar date.
// Pure and fail-closed: a task with an unknown frequency or missing
// recurrence fields is never due. Monthly days past the end of a short month
// do not match that month (no clamping to the last day).
func (t *Task) IsDueOn(date time.Time) bool {
	switch t.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		dow := int(date.Weekday()) // Sunday=0, matching the stored convention
		for _, d := range t.WeeklyDays {
			if d == dow {
				return true
			}
		}
		return false
	case FrequencyMonthly:
		return t.MonthlyDay != nil && date.Day() == *t.MonthlyDay
	case FrequencyOnce:
		if t.DueDate == nil {
			return false
		}
		y1, m1, d1 := t.DueDate.Date()
		y2, m2, d2 := date.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	return false
}

// TaskStats is the caller-facing daily progress summary.
type TaskStats struct {
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// RankingEntry is one row of the submission-count leaderboard.
type RankingEntry struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Submissions int    `json:"submissions"`
}
