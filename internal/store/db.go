package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

// DB is a sqlite listing written by Import and read by the sqlite source.
type DB struct {
	Pool     *sql.DB
	ReadOnly bool
}

// Open opens (creating if needed) a database for Import.
func Open(path string) (*DB, error) {
	return open(path, false)
}

// OpenReadOnly opens an existing database without taking the write lock.
func OpenReadOnly(path string) (*DB, error) {
	return open(path, true)
}

func open(path string, readOnly bool) (*DB, error) {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	if readOnly {
		q.Set("mode", "ro")
	}
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := "file:" + path + "?" + q.Encode()

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if !readOnly {
		pool.SetMaxOpenConns(1) // Import is the only writer
	}
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	return &DB{Pool: pool, ReadOnly: readOnly}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}
