package db

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// CreateFocusSession records a started focus session.
func (d *DB) CreateFocusSession(ctx context.Context, userID int64, topic string, startedAt time.Time, duration time.Duration) (int64, error) {
	res, err := d.conn.ExecContext(ctx,
		"INSERT INTO focus_sessions (user_id, topic, duration_minutes, started_at, ends_at) VALUES (?, ?, ?, ?, ?)",
		userID, topic, int(duration/time.Minute), formatTime(startedAt), formatTime(startedAt.Add(duration)),
	)
	if err != nil {
		return 0, goerr.Wrap(err, "creating focus session", goerr.V("user_id", userID))
	}
	return res.LastInsertId()
}

// CompleteFocusSession marks a focus session as finished.
func (d *DB) CompleteFocusSession(ctx context.Context, id int64) error {
	res, err := d.conn.ExecContext(ctx, "UPDATE focus_sessions SET completed = 1 WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(err, "completing focus session", goerr.V("session_id", id))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goerr.Wrap(ErrNotFound, "focus session not found", goerr.V("session_id", id))
	}
	return nil
}

// GetFocusSession returns a focus session or nil.
func (d *DB) GetFocusSession(ctx context.Context, id int64) (*FocusSession, error) {
	var s FocusSession
	var started, ends string
	var completed int
	err := d.conn.QueryRowContext(ctx,
		"SELECT id, user_id, topic, duration_minutes, started_at, ends_at, completed FROM focus_sessions WHERE id = ?", id,
	).Scan(&s.ID, &s.UserID, &s.Topic, &s.DurationMinutes, &started, &ends, &completed)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "getting focus session", goerr.V("session_id", id))
	}
	if s.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if s.EndsAt, err = parseTime(ends); err != nil {
		return nil, err
	}
	s.Completed = completed == 1
	return &s, nil
}
