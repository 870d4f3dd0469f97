package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists search history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS search_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			query       TEXT NOT NULL,
			ticker      TEXT,
			status      TEXT NOT NULL,
			points      INTEGER,
			forward_eps REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_ts ON search_history(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_search_ticker ON search_history(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSearch(rec *SearchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var eps interface{}
	if rec.ForwardEPS != nil {
		eps = *rec.ForwardEPS
	}
	_, err := r.db.Exec(`INSERT INTO search_history
		(timestamp, query, ticker, status, points, forward_eps)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Query, rec.Ticker, rec.Status, rec.Points, eps,
	)
	return err
}

// PruneBefore deletes history rows older than cutoff and returns the count.
func (r *SQLiteRecorder) PruneBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM search_history WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
