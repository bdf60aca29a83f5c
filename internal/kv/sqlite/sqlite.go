// Package sqlite stores key-value pairs in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"go.uber.org/zap"

	// registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY NOT NULL,
	v BLOB NOT NULL
)`

type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

var _ kv.Store = (*Store)(nil)

type Opts struct {
	Path         string
	MaxOpenConns int
}

// Open opens (creating if needed) the database at opts.Path and applies the schema.
func Open(opts Opts, log *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		schema,
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("failed to init sqlite database: %w; also failed to close: %v", err, cerr)
			}

			return nil, fmt.Errorf("failed to init sqlite database: %w", err)
		}
	}

	log.Infow("sqlite kv store ready", "path", opts.Path)

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte

	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %q: %v", kv.ErrUnavailable, key, err)
	}

	return v, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: put %q: %v", kv.ErrUnavailable, key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("%w: delete %q: %v", kv.ErrUnavailable, key, err)
	}

	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	// substr avoids LIKE wildcard escaping on user-supplied titles
	rows, err := s.db.QueryContext(ctx,
		`SELECT k FROM kv WHERE substr(k, 1, ?) = ? ORDER BY k`,
		utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: keys %q: %v", kv.ErrUnavailable, prefix, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: keys %q: %v", kv.ErrUnavailable, prefix, err)
		}
		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: keys %q: %v", kv.ErrUnavailable, prefix, err)
	}

	return keys, nil
}
