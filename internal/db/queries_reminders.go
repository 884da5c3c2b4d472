package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const reminderColumns = `r.id, r.user_id, u.external_id, r.text, r.fire_at, r.completed, r.recurring, r.created_at
	FROM reminders r JOIN users u ON u.id = r.user_id`

// CreateReminder persists a reminder and returns its id. fireAt is stored as UTC.
func (d *DB) CreateReminder(ctx context.Context, userID int64, text string, fireAt time.Time, recurring bool) (int64, error) {
	res, err := d.conn.ExecContext(ctx,
		"INSERT INTO reminders (user_id, text, fire_at, recurring) VALUES (?, ?, ?, ?)",
		userID, text, formatTime(fireAt), boolInt(recurring),
	)
	if err != nil {
		return 0, goerr.Wrap(err, "creating reminder", goerr.V("user_id", userID))
	}
	return res.LastInsertId()
}

// GetReminder returns the reminder or nil if it does not exist.
func (d *DB) GetReminder(ctx context.Context, id int64) (*Reminder, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT "+reminderColumns+" WHERE r.id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "getting reminder", goerr.V("reminder_id", id))
	}
	defer rows.Close()
	out, err := scanReminders(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// ListActiveFutureReminders returns uncompleted reminders firing strictly after now.
func (d *DB) ListActiveFutureReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+reminderColumns+" WHERE r.completed = 0 AND r.fire_at > ? ORDER BY r.fire_at ASC",
		formatTime(now),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "listing active reminders")
	}
	defer rows.Close()
	return scanReminders(rows)
}

// ListUserReminders returns a user's reminders filtered by completion, soonest first.
func (d *DB) ListUserReminders(ctx context.Context, userID int64, completed bool, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+reminderColumns+" WHERE r.user_id = ? AND r.completed = ? ORDER BY r.fire_at ASC LIMIT ?",
		userID, boolInt(completed), limit,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "listing user reminders", goerr.V("user_id", userID))
	}
	defer rows.Close()
	return scanReminders(rows)
}

// MarkReminderCompleted flips the completion flag. It reports whether this
// call performed the transition; a second call on the same id returns false.
func (d *DB) MarkReminderCompleted(ctx context.Context, id int64) (bool, error) {
	res, err := d.conn.ExecContext(ctx, "UPDATE reminders SET completed = 1 WHERE id = ? AND completed = 0", id)
	if err != nil {
		return false, goerr.Wrap(err, "marking reminder completed", goerr.V("reminder_id", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, goerr.Wrap(err, "marking reminder completed", goerr.V("reminder_id", id))
	}
	return n == 1, nil
}

// DeleteReminder removes a reminder. It reports whether a row was deleted.
func (d *DB) DeleteReminder(ctx context.Context, id int64) (bool, error) {
	res, err := d.conn.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return false, goerr.Wrap(err, "deleting reminder", goerr.V("reminder_id", id))
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var out []Reminder
	for rows.Next() {
		var r Reminder
		var fireAt string
		var completed, recurring int
		if err := rows.Scan(&r.ID, &r.UserID, &r.Recipient, &r.Text, &fireAt, &completed, &recurring, &r.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "scanning reminder")
		}
		t, err := parseTime(fireAt)
		if err != nil {
			return nil, err
		}
		r.FireAt = t
		r.Completed = completed == 1
		r.Recurring = recurring == 1
		out = append(out, r)
	}
	return out, rows.Err()
}
