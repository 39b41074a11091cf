// Package fetchlog persists refresh history to SQLite: one row per refresh
// attempt across all content domains, written asynchronously so recording
// never blocks a query. The history backs the serve command's status output
// and post-incident digging.
package fetchlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Schema for the refreshes table. Applied by Open.
const Schema = `
CREATE TABLE IF NOT EXISTS refreshes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	domain TEXT NOT NULL,
	ok INTEGER NOT NULL,
	fallback INTEGER NOT NULL,
	elapsed_us INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_refreshes_domain_at ON refreshes(domain, at);
CREATE INDEX IF NOT EXISTS idx_refreshes_failed ON refreshes(at) WHERE ok = 0;
`

// Entry is one recorded refresh attempt.
type Entry struct {
	Domain   string
	OK       bool
	Fallback bool
	Elapsed  time.Duration
	Error    string
	At       time.Time

	// ack, when set, marks a flush barrier instead of data.
	ack chan struct{}
}

// Store writes refresh entries to SQLite asynchronously. Recording is
// non-blocking; entries are dropped if the buffer fills.
type Store struct {
	db   *sql.DB
	ch   chan Entry
	done chan struct{}

	// mu guards closed so RecordRefresh and Flush never send on a channel
	// Close has already closed.
	mu     sync.Mutex
	closed bool
}

// Open opens (or creates) the refresh log database at path and starts the
// flush goroutine. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fetchlog: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("fetchlog: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("fetchlog: schema: %w", err)
	}

	s := &Store{
		db:   db,
		ch:   make(chan Entry, 256),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s, nil
}

// RecordRefresh implements snapshot.Recorder. Non-blocking; drops if the
// buffer is full.
func (s *Store) RecordRefresh(domain string, ok, fallback bool, elapsed time.Duration, fetchErr error) {
	errMsg := ""
	if fetchErr != nil {
		errMsg = fetchErr.Error()
	}
	entry := Entry{
		Domain:   domain,
		OK:       ok,
		Fallback: fallback,
		Elapsed:  elapsed,
		Error:    errMsg,
		At:       time.Now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- entry:
	default:
	}
}

// Recent returns the newest entries for a domain ("" = all domains), newest
// first. Pending async writes may not be visible yet; call Flush first when
// read-after-write matters.
func (s *Store) Recent(ctx context.Context, domain string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT domain, ok, fallback, elapsed_us, error, at FROM refreshes`
	args := []any{}
	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetchlog: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			ok, fb    int
			elapsedUs int64
			at        int64
		)
		if err := rows.Scan(&e.Domain, &ok, &fb, &elapsedUs, &e.Error, &at); err != nil {
			return nil, fmt.Errorf("fetchlog: scan: %w", err)
		}
		e.OK = ok != 0
		e.Fallback = fb != 0
		e.Elapsed = time.Duration(elapsedUs) * time.Microsecond
		e.At = time.UnixMicro(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Cleanup deletes entries older than retention. Returns rows removed.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UnixMicro()
	res, err := s.db.ExecContext(ctx, `DELETE FROM refreshes WHERE at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("fetchlog: cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Flush blocks until every entry queued before the call is written.
// A no-op after Close.
func (s *Store) Flush() {
	ack := make(chan struct{})
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.ch <- Entry{ack: ack}
	s.mu.Unlock()
	<-ack
}

// Close drains the buffer and stops the flush goroutine. Safe to call more
// than once.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
	<-s.done
	return s.db.Close()
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]Entry, 0, 32)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			if e.ack != nil {
				s.flushBatch(batch)
				batch = batch[:0]
				close(e.ack)
				continue
			}
			batch = append(batch, e)
			if len(batch) >= 32 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("fetchlog: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO refreshes (domain, ok, fallback, elapsed_us, error, at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("fetchlog: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.Domain, boolInt(e.OK), boolInt(e.Fallback),
			e.Elapsed.Microseconds(), e.Error, e.At.UnixMicro()); err != nil {
			slog.Error("fetchlog: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("fetchlog: commit", "error", err)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
