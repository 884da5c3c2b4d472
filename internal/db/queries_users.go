package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// GetOrCreateUser returns the user for an external (transport) id, creating
// it with the given default timezone if it does not exist yet.
func (d *DB) GetOrCreateUser(ctx context.Context, externalID, defaultTZ string) (*User, error) {
	if defaultTZ == "" {
		defaultTZ = "UTC"
	}
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO users (external_id, timezone) VALUES (?, ?) ON CONFLICT(external_id) DO NOTHING",
		externalID, defaultTZ,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "creating user", goerr.V("external_id", externalID))
	}
	var u User
	err = d.conn.QueryRowContext(ctx,
		"SELECT id, external_id, timezone, created_at FROM users WHERE external_id = ?", externalID,
	).Scan(&u.ID, &u.ExternalID, &u.Timezone, &u.CreatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "loading user", goerr.V("external_id", externalID))
	}
	return &u, nil
}

// SetUserTimezone updates a user's IANA timezone name.
func (d *DB) SetUserTimezone(ctx context.Context, userID int64, tz string) error {
	res, err := d.conn.ExecContext(ctx, "UPDATE users SET timezone = ? WHERE id = ?", tz, userID)
	if err != nil {
		return goerr.Wrap(err, "updating timezone", goerr.V("user_id", userID))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("user_id", userID))
	}
	return nil
}

// ListUsers returns every known user, oldest first.
func (d *DB) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT id, external_id, timezone, created_at FROM users ORDER BY id ASC")
	if err != nil {
		return nil, goerr.Wrap(err, "listing users")
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.ExternalID, &u.Timezone, &u.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "scanning user")
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
