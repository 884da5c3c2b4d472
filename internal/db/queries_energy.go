package db

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// SaveEnergyLevel records a 0-100 self-reported energy level.
func (d *DB) SaveEnergyLevel(ctx context.Context, userID int64, level int) error {
	_, err := d.conn.ExecContext(ctx, "INSERT INTO energy_logs (user_id, level) VALUES (?, ?)", userID, level)
	if err != nil {
		return goerr.Wrap(err, "saving energy level", goerr.V("user_id", userID))
	}
	return nil
}

// LatestEnergySince returns the most recent level logged at or after since,
// or ok=false if there is none.
func (d *DB) LatestEnergySince(ctx context.Context, userID int64, since time.Time) (level int, ok bool, err error) {
	err = d.conn.QueryRowContext(ctx,
		"SELECT level FROM energy_logs WHERE user_id = ? AND created_at >= ? ORDER BY id DESC LIMIT 1",
		userID, formatTime(since),
	).Scan(&level)
	if isNoRows(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, goerr.Wrap(err, "getting energy level", goerr.V("user_id", userID))
	}
	return level, true, nil
}
