package models

import "time"

// SubmissionKind tags which payload column a submission carries.
type SubmissionKind string

const (
	SubmissionText SubmissionKind = "text"
	SubmissionLink SubmissionKind = "link"
	SubmissionFile SubmissionKind = "file"
)

// Submission is an immutable proof-of-completion record: one task, one
// submitter, one calendar date, exactly one payload. Rows are append-only and
// deliberately survive deletion of their task.
type Submission struct {
	ID          int64          `json:"id"`
	TaskID      int64          `json:"task_id"`
	UserID      int64          `json:"user_id"`
	Date        time.Time      `json:"date"` // calendar date the proof is for
	Kind        SubmissionKind `json:"type"`
	ContentText string         `json:"content_text,omitempty"`
	LinkURL     string         `json:"link_url,omitempty"`
	FilePath    string         `json:"file_path,omitempty"` // relative to the uploads root
	CreatedAt   time.Time      `json:"created_at"`

	// filled on reads that join users
	Username string `json:"username,omitempty"`
}
