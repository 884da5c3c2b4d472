package db

import (
	"database/sql"
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "opening database", goerr.V("path", path))
	}
	// One connection: keeps ":memory:" databases coherent and serializes
	// writes from concurrently firing timers.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, goerr.Wrap(err, "setting WAL mode")
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, goerr.Wrap(err, "enabling foreign keys")
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, goerr.Wrap(err, "running migrations")
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}
