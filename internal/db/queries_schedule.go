package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ListSchedules returns all schedules, optionally only enabled ones.
func (d *DB) ListSchedules(ctx context.Context, enabledOnly bool) ([]Schedule, error) {
	q := "SELECT id, name, cron_expr, message, enabled, COALESCE(last_run,''), created_at FROM schedules"
	if enabledOnly {
		q += " WHERE enabled = 1"
	}
	q += " ORDER BY created_at ASC, id ASC"
	rows, err := d.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, goerr.Wrap(err, "listing schedules")
	}
	defer rows.Close()
	var out []Schedule
	for rows.Next() {
		var s Schedule
		var enabled int
		if err := rows.Scan(&s.ID, &s.Name, &s.CronExpr, &s.Message, &enabled, &s.LastRun, &s.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "scanning schedule")
		}
		s.Enabled = enabled == 1
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateSchedule creates a new schedule and returns its ID.
func (d *DB) CreateSchedule(ctx context.Context, name, cronExpr, message string) (int64, error) {
	res, err := d.conn.ExecContext(ctx,
		"INSERT INTO schedules (name, cron_expr, message) VALUES (?, ?, ?)",
		name, cronExpr, message,
	)
	if err != nil {
		return 0, goerr.Wrap(err, "creating schedule", goerr.V("name", name))
	}
	return res.LastInsertId()
}

// UpdateSchedule updates fields on a schedule by ID.
func (d *DB) UpdateSchedule(ctx context.Context, id int64, fields map[string]any) error {
	allowed := map[string]bool{"cron_expr": true, "message": true, "enabled": true}
	if len(fields) == 0 {
		return nil
	}
	var setClauses []string
	var args []any
	for col, val := range fields {
		if !allowed[col] {
			return goerr.New("disallowed column for schedules", goerr.V("column", col))
		}
		setClauses = append(setClauses, col+" = ?")
		args = append(args, val)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE schedules SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	res, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return goerr.Wrap(err, "updating schedule", goerr.V("schedule_id", id))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goerr.Wrap(ErrNotFound, "schedule not found", goerr.V("schedule_id", id))
	}
	return nil
}

// RecordScheduleRun updates last_run to now for a schedule.
func (d *DB) RecordScheduleRun(ctx context.Context, id int64) error {
	_, err := d.conn.ExecContext(ctx, "UPDATE schedules SET last_run = datetime('now') WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(err, "recording schedule run", goerr.V("schedule_id", id))
	}
	return nil
}
