// Package journal keeps a ledger of every alert seen during one run.
//
// The live collection is capped and replaced on every mode switch; the
// journal is not. Its per-category totals feed the shutdown summary.
// Nothing is written to disk unless the caller opens a file path.
package journal

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/abelbrown/resqwatch/internal/alert"
)

// Journal is a SQLite-backed set of alerts keyed by id.
// All methods are safe for concurrent use.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Journal at path. ":memory:" gives a private in-memory
// database that disappears on Close.
func Open(path string) (*Journal, error) {
	dsn := path
	if path == ":memory:" {
		// Named so that concurrent journals in one process stay separate.
		dsn = fmt.Sprintf("file:journal-%s?mode=memory&cache=shared", uuid.NewString())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return j, nil
}

func (j *Journal) createTables() error {
	_, err := j.db.Exec(`
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		confidence REAL NOT NULL,
		url TEXT,
		subreddit TEXT,
		ts INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_category ON alerts(category);
	`)
	return err
}

// Close releases the database.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// Record stores alerts not seen before and returns how many were new.
// Existing ids are left untouched.
func (j *Journal) Record(alerts []alert.Alert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO alerts (id, title, category, confidence, url, subreddit, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, a := range alerts {
		res, err := stmt.Exec(a.ID, a.Title, string(a.Category), a.Confidence, a.URL, a.Subreddit, a.Timestamp)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", a.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Count returns the number of distinct alerts recorded, noise included.
func (j *Journal) Count() (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return n, nil
}

// CategoryCounts returns distinct alerts per category. The noise label is
// excluded.
func (j *Journal) CategoryCounts() (map[alert.Category]int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.Query(`
		SELECT category, COUNT(*) FROM alerts
		WHERE category != ?
		GROUP BY category
	`, string(alert.Noise))
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[alert.Category]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[alert.Category(cat)] = n
	}
	return counts, rows.Err()
}
