package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/wikitree"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ wikitree.PageService  = (*PageService)(nil)
	_ wikitree.RecordWriter = (*RunWriter)(nil)
	_ wikitree.ErrorWriter  = (*RunWriter)(nil)
)

// PageService implements wikitree.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// FindPages retrieves stored pages matching the filter, newest first.
func (s *PageService) FindPages(ctx context.Context, filter wikitree.PageFilter) ([]*wikitree.StoredPage, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, page_id, ns, title, content, content_hash, created_at FROM pages WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.Title != nil {
		query.WriteString(" AND title = ?")
		args = append(args, *filter.Title)
	}

	query.WriteString(" ORDER BY rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*wikitree.StoredPage
	for rows.Next() {
		var p wikitree.StoredPage
		var createdAt string

		if err := rows.Scan(&p.ID, &p.RunID, &p.PageID, &p.Namespace, &p.Title,
			&p.Content, &p.ContentHash, &createdAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}

		pages = append(pages, &p)
	}

	return pages, rows.Err()
}

// DefaultBatchSize is the number of rows a RunWriter commits at once.
const DefaultBatchSize = 500

// RunWriter stores the records and parse errors of one run. Rows are
// written in transactions of BatchSize rows; Close commits the last one.
// Records and errors share the transaction, so one RunWriter serves as both
// the record writer and the error writer of a run.
type RunWriter struct {
	db        *DB
	runID     string
	batchSize int

	mu     sync.Mutex
	tx     *sql.Tx
	rows   int
	closed bool
}

// NewRunWriter creates a RunWriter for the run with the given ID. A batch
// size of zero or less uses DefaultBatchSize.
func NewRunWriter(db *DB, runID string, batchSize int) *RunWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RunWriter{db: db, runID: runID, batchSize: batchSize}
}

// WriteRecord stores rec with its tree encoded as JSON.
func (w *RunWriter) WriteRecord(ctx context.Context, rec *wikitree.Record) error {
	content := []byte("{}")
	if rec.Content != nil {
		var err error
		if content, err = rec.Content.MarshalJSON(); err != nil {
			return err
		}
	}

	return w.exec(ctx, `
		INSERT INTO pages (id, run_id, page_id, ns, title, content, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), w.runID, rec.Page.ID, rec.Page.Namespace, rec.Page.Title,
		string(content), hashContent(content), formatTime(time.Now()))
}

// WriteError stores one parse error.
func (w *RunWriter) WriteError(ctx context.Context, perr *wikitree.ParseError) error {
	return w.exec(ctx, `
		INSERT INTO parse_errors (id, run_id, kind, localization, expression, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), w.runID, string(perr.Kind), perr.Localization, perr.Expression,
		formatTime(time.Now()))
}

func (w *RunWriter) exec(ctx context.Context, query string, args ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return wikitree.Errorf(wikitree.EINVALID, "run writer is closed")
	}
	if w.tx == nil {
		tx, err := w.db.BeginTx(ctx)
		if err != nil {
			return err
		}
		w.tx = tx
	}

	if _, err := w.tx.ExecContext(ctx, query, args...); err != nil {
		_ = w.tx.Rollback()
		w.tx = nil
		return err
	}

	w.rows++
	if w.rows%w.batchSize == 0 {
		return w.commit()
	}
	return nil
}

func (w *RunWriter) commit() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.tx = nil
	return err
}

// Close commits pending rows. Later calls do nothing.
func (w *RunWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.commit()
}
