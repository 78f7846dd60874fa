package repositories

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// OpenDB connects to Postgres and applies the schema. Uniqueness lives in the
// database on purpose: lower(email), username and (owner, partner) pairs must
// hold under concurrent requests, not just in application code.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	telegram_chat_id BIGINT,
	refresh_token TEXT,
	refresh_expires_at TIMESTAMPTZ,
	refresh_revoked BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email));

CREATE TABLE IF NOT EXISTS share_pairs (
	id BIGSERIAL PRIMARY KEY,
	owner_user_id BIGINT NOT NULL REFERENCES users(id),
	partner_user_id BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (owner_user_id, partner_user_id)
);

CREATE INDEX IF NOT EXISTS idx_share_pairs_partner ON share_pairs (partner_user_id);

CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	owner_user_id BIGINT NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	require_submission BOOLEAN NOT NULL DEFAULT FALSE,
	frequency TEXT NOT NULL,
	weekly_days TEXT,
	monthly_day INT,
	due_date DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks (owner_user_id);

-- no FK on task_id: submissions outlive their task when it is deleted
CREATE TABLE IF NOT EXISTS submissions (
	id BIGSERIAL PRIMARY KEY,
	task_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL REFERENCES users(id),
	date DATE NOT NULL,
	kind TEXT NOT NULL,
	content_text TEXT,
	link_url TEXT,
	file_path TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_submissions_date ON submissions (date);
CREATE INDEX IF NOT EXISTS idx_submissions_task ON submissions (task_id);
`)
	return err
}
