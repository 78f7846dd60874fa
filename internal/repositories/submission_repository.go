package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"habitboard/internal/models"
)

type SubmissionRepository interface {
	Store(ctx context.Context, sub *models.Submission) error
	FindByTask(ctx context.Context, taskID int64) ([]models.Submission, error)
	FindByTasksOnDate(ctx context.Context, taskIDs []int64, date time.Time) ([]models.Submission, error)
	ExistsForTaskOnDate(ctx context.Context, taskID int64, date time.Time) (bool, error)
	Rankings(ctx context.Context, ownerIDs []int64, since time.Time) ([]models.RankingEntry, error)
}

type submissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Store(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (task_id, user_id, date, kind, content_text, link_url, file_path)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		sub.TaskID, sub.UserID, sub.Date, sub.Kind,
		nullString(sub.ContentText), nullString(sub.LinkURL), nullString(sub.FilePath),
	).Scan(&sub.ID, &sub.CreatedAt)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

const submissionSelect = `
	SELECT s.id, s.task_id, s.user_id, s.date, s.kind,
	       COALESCE(s.content_text,''), COALESCE(s.link_url,''), COALESCE(s.file_path,''),
	       s.created_at, u.username
	FROM submissions s
	JOIN users u ON u.id = s.user_id`

func (r *submissionRepository) FindByTask(ctx context.Context, taskID int64) ([]models.Submission, error) {
	rows, err := r.db.QueryContext(ctx,
		submissionSelect+` WHERE s.task_id = $1 ORDER BY s.created_at DESC`, taskID)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

func (r *submissionRepository) FindByTasksOnDate(ctx context.Context, taskIDs []int64, date time.Time) ([]models.Submission, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		submissionSelect+` WHERE s.date = $1 AND s.task_id = ANY($2) ORDER BY s.created_at DESC`,
		date, pq.Array(taskIDs))
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

func collectSubmissions(rows *sql.Rows) ([]models.Submission, error) {
	defer rows.Close()
	var out []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(
			&s.ID, &s.TaskID, &s.UserID, &s.Date, &s.Kind,
			&s.ContentText, &s.LinkURL, &s.FilePath, &s.CreatedAt, &s.Username,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *submissionRepository) ExistsForTaskOnDate(ctx context.Context, taskID int64, date time.Time) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM submissions WHERE task_id=$1 AND date=$2 LIMIT 1`,
		taskID, date).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *submissionRepository) Rankings(ctx context.Context, ownerIDs []int64, since time.Time) ([]models.RankingEntry, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.username, COUNT(*) AS cnt
		FROM submissions s
		JOIN tasks t ON t.id = s.task_id
		JOIN users u ON u.id = s.user_id
		WHERE t.owner_user_id = ANY($1) AND s.date >= $2
		GROUP BY u.id, u.username
		ORDER BY cnt DESC, u.username`,
		pq.Array(ownerIDs), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RankingEntry
	for rows.Next() {
		var e models.RankingEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Submissions); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
