// Package store persists per-user scrape history. It backs the
// core.HistoryStore interface with SQLite (default) or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gaurav-prasanna/pagesift/core"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	DefaultRecentLimit = 5
	maxRecentLimit     = 100
)

// schema is shared by both drivers; %s is the auto-increment id column,
// which orders rows recorded within the same timestamp.
const schema = `
CREATE TABLE IF NOT EXISTS search_history (
    id          %s,
    user_name   TEXT NOT NULL,
    search_url  TEXT NOT NULL,
    searched_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history (user_name, searched_at);
`

// Store is a SQL-backed history store.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema if needed.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "", "sqlite":
		driver = DriverSQLite
	case DriverSQLite, DriverPostgres:
	default:
		return nil, core.InvalidArg("open store", "unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, core.StoreErr("open store", fmt.Errorf("failed to open db: %w", err))
	}
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and avoids
		// SQLITE_BUSY from concurrent writers.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, core.StoreErr("open store", fmt.Errorf("failed to ping db: %w", err))
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}
	for _, stmt := range strings.Split(fmt.Sprintf(schema, idColumn), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return core.StoreErr("migrate", fmt.Errorf("failed to execute schema: %w", err))
		}
	}
	return nil
}

// Add records that user scraped url at the given time.
func (s *Store) Add(ctx context.Context, user, url string, at time.Time) error {
	if user == "" {
		return core.InvalidArg("add history", "user is required")
	}
	if url == "" {
		return core.InvalidArg("add history", "url is required")
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO search_history (user_name, search_url, searched_at) VALUES (?, ?, ?)`),
		user, url, at.UTC())
	if err != nil {
		return core.StoreErr("add history", err)
	}
	return nil
}

// Recent returns the user's latest scrapes, newest first.
func (s *Store) Recent(ctx context.Context, user string, limit int) ([]core.HistoryEntry, error) {
	limit = clampLimit(limit, DefaultRecentLimit, maxRecentLimit)

	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT search_url, searched_at
FROM search_history
WHERE user_name = ?
ORDER BY searched_at DESC, id DESC
LIMIT ?`), user, limit)
	if err != nil {
		return nil, core.StoreErr("recent history", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		e := core.HistoryEntry{User: user}
		if err := rows.Scan(&e.URL, &e.SearchedAt); err != nil {
			return nil, core.StoreErr("recent history", err)
		}
		e.SearchedAt = e.SearchedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.StoreErr("recent history", err)
	}
	return entries, nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
