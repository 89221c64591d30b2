package history

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lazydash/lazydash/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Entry records one view visit: which view was opened, with what filter,
// and how the fetch went.
type Entry struct {
	ID              int
	TenantCode      string
	ProductCode     string
	ObjectCode      string
	ViewContentCode string
	FilterJSON      string
	Page            int
	RowCount        int
	VisitedAt       time.Time
	Duration        time.Duration
	Success         bool
	ErrorMessage    string
}

// Target returns the view key the entry belongs to.
func (e Entry) Target() string {
	return e.ObjectCode + "__" + e.ViewContentCode
}

// Store manages visit history persistence
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Add records a visit.
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO visit_history
		(tenant_code, product_code, object_code, view_content_code,
		 filter_json, page, row_count, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TenantCode,
		entry.ProductCode,
		entry.ObjectCode,
		entry.ViewContentCode,
		entry.FilterJSON,
		entry.Page,
		entry.RowCount,
		entry.Duration.Milliseconds(),
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// GetRecent retrieves the most recent visits.
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, tenant_code, product_code, object_code, view_content_code,
		       filter_json, page, row_count, visited_at, duration_ms,
		       success, error_message
		FROM visit_history
		ORDER BY visited_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// GetForView retrieves recent visits scoped to one view.
func (s *Store) GetForView(scope models.Scope, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, tenant_code, product_code, object_code, view_content_code,
		       filter_json, page, row_count, visited_at, duration_ms,
		       success, error_message
		FROM visit_history
		WHERE tenant_code = ? AND product_code = ?
		  AND object_code = ? AND view_content_code = ?
		ORDER BY visited_at DESC
		LIMIT ?`,
		scope.TenantCode, scope.ProductCode, scope.ObjectCode, scope.ViewContentCode, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Prune keeps only the newest maxEntries rows.
func (s *Store) Prune(maxEntries int) error {
	_, err := s.db.Exec(`
		DELETE FROM visit_history
		WHERE id NOT IN (
			SELECT id FROM visit_history ORDER BY visited_at DESC LIMIT ?
		)`, maxEntries)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var visitedAt string

		err := rows.Scan(
			&e.ID,
			&e.TenantCode,
			&e.ProductCode,
			&e.ObjectCode,
			&e.ViewContentCode,
			&e.FilterJSON,
			&e.Page,
			&e.RowCount,
			&visitedAt,
			&durationMs,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.VisitedAt, _ = time.Parse("2006-01-02 15:04:05", visitedAt)

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
