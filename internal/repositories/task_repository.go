package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"habitboard/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindByOwners(ctx context.Context, ownerIDs []int64) ([]models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, owner_user_id, title, require_submission, frequency,
	weekly_days, monthly_day, due_date, created_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	var weeklyDays interface{}
	if task.Frequency == models.FrequencyWeekly {
		b, err := json.Marshal(task.WeeklyDays)
		if err != nil {
			return err
		}
		weeklyDays = string(b)
	}

	query := `
		INSERT INTO tasks (owner_user_id, title, require_submission, frequency,
			weekly_days, monthly_day, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, task.RequireSubmission, task.Frequency,
		weeklyDays, task.MonthlyDay, task.DueDate,
	).Scan(&task.ID, &task.CreatedAt)
}

// scanTask decodes one row. A weekly_days value that fails to parse leaves the
// set empty, so the task schedules nothing instead of erroring every read.
func scanTask(scan func(dest ...interface{}) error) (*models.Task, error) {
	t := &models.Task{}
	var weeklyDays sql.NullString
	if err := scan(
		&t.ID, &t.OwnerID, &t.Title, &t.RequireSubmission, &t.Frequency,
		&weeklyDays, &t.MonthlyDay, &t.DueDate, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	if weeklyDays.Valid {
		if err := json.Unmarshal([]byte(weeklyDays.String), &t.WeeklyDays); err != nil {
			t.WeeklyDays = nil
		}
	}
	return t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) FindByOwners(ctx context.Context, ownerIDs []int64) ([]models.Task, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_user_id = ANY($1) ORDER BY created_at DESC`,
		pq.Array(ownerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
