package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const kvFileName = "storage.sqlite"

// KV is the process-local key/value storage ("local storage").
//
// Reads and writes are synchronous. Values are opaque strings; callers own
// their encoding.
type KV struct {
	db   *sql.DB
	path string
}

// KVPath returns <configDir>/storage.sqlite.
func KVPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, kvFileName), nil
}

// OpenKV opens (creating if needed) the SQLite key/value file at path.
func OpenKV(ctx context.Context, path string) (*KV, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("kv: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A CLI invocation may write while the TUI is open in another terminal.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
  k TEXT PRIMARY KEY,
  v TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: migrate: %w", err)
	}
	return &KV{db: db, path: path}, nil
}

func (s *KV) Path() string { return s.path }

// Get returns the stored value and whether the key exists.
func (s *KV) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KV) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv(k, v) VALUES(?, ?)
ON CONFLICT(k) DO UPDATE SET v = excluded.v`, key, value)
	return err
}

func (s *KV) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, key)
	return err
}

// Keys lists stored keys in lexical order.
func (s *KV) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT k FROM kv ORDER BY k`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *KV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
