package db

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// SaveNote stores a note and returns its id.
func (d *DB) SaveNote(ctx context.Context, userID int64, text string) (int64, error) {
	res, err := d.conn.ExecContext(ctx, "INSERT INTO notes (user_id, text) VALUES (?, ?)", userID, text)
	if err != nil {
		return 0, goerr.Wrap(err, "saving note", goerr.V("user_id", userID))
	}
	return res.LastInsertId()
}

// ListNotes returns a user's most recent notes.
func (d *DB) ListNotes(ctx context.Context, userID int64, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = 50
	}
	return d.queryNotes(ctx,
		"SELECT id, user_id, text, created_at FROM notes WHERE user_id = ? ORDER BY id DESC LIMIT ?",
		userID, limit,
	)
}

// SearchNotes does a case-insensitive substring match over a user's notes.
// LIKE in SQLite only folds ASCII, so the match runs in Go.
func (d *DB) SearchNotes(ctx context.Context, userID int64, query string, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = 20
	}
	all, err := d.ListNotes(ctx, userID, 1000)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []Note
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Text), q) {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// DeleteNote removes one of the user's notes.
func (d *DB) DeleteNote(ctx context.Context, userID, noteID int64) (bool, error) {
	res, err := d.conn.ExecContext(ctx, "DELETE FROM notes WHERE id = ? AND user_id = ?", noteID, userID)
	if err != nil {
		return false, goerr.Wrap(err, "deleting note", goerr.V("note_id", noteID))
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (d *DB) queryNotes(ctx context.Context, q string, args ...any) ([]Note, error) {
	rows, err := d.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "querying notes")
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "scanning note")
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
