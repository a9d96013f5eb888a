// Package sqlitestore provides a SQLite implementation of domain.TaskStore.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/runoshun/mfnd/internal/domain"

	_ "modernc.org/sqlite"
)

// Meta keys.
const (
	metaPumpkinTime     = "pumpkin_time"
	metaLastInitialized = "last_initialized"
)

// Descriptions of the seeded synthetic nodes.
const (
	rootDescription = "root"
	modeDescription = "default"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER NULL,
		depth INTEGER NOT NULL,
		position INTEGER NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent_position ON tasks(parent_id, position);`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,
}

// Store implements domain.TaskStore on a SQLite database file.
// Fields are ordered to minimize memory padding.
type Store struct {
	db             *sql.DB
	path           string
	defaultPumpkin domain.PumpkinTime
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultPumpkinTime sets the reset time used until one is configured.
func WithDefaultPumpkinTime(p domain.PumpkinTime) Option {
	return func(s *Store) { s.defaultPumpkin = p }
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", domain.ErrStoreUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %w", domain.ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, defaultPumpkin: domain.DefaultPumpkinTime}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: apply schema: %w", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Initialize applies the pumpkin reset, seeds the root and mode nodes and
// records now as the last initialization time.
func (s *Store) Initialize(ctx context.Context, now time.Time) error {
	return s.withTx(ctx, "initialize", func(tx *sql.Tx) error {
		pumpkin, err := s.pumpkinTimeTx(ctx, tx)
		if err != nil {
			return err
		}
		last, err := lastInitializedTx(ctx, tx)
		if err != nil {
			return err
		}
		if pumpkin.ShouldReset(last, now) {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
				return err
			}
		}

		var rootCount int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE parent_id IS NULL`).Scan(&rootCount); err != nil {
			return err
		}
		if rootCount == 0 {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (parent_id, depth, position, description, status) VALUES (NULL, ?, 1, ?, ?)`,
				domain.RootDepth, rootDescription, string(domain.StatusTodo))
			if err != nil {
				return err
			}
			rootID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (parent_id, depth, position, description, status) VALUES (?, ?, 1, ?, ?)`,
				rootID, domain.ModeDepth, modeDescription, string(domain.StatusTodo)); err != nil {
				return err
			}
		}

		return setMetaTx(ctx, tx, metaLastInitialized, now.Format(time.RFC3339Nano))
	})
}

// Records returns every record ordered by depth, then position.
func (s *Store) Records(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(parent_id, 0), depth, position, description, status
		FROM tasks
		ORDER BY depth, parent_id, position`)
	if err != nil {
		return nil, classify("read records", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.Record
	for rows.Next() {
		var (
			r      domain.Record
			status string
		)
		if err := rows.Scan(&r.ID, &r.ParentID, &r.Depth, &r.Task.Position, &r.Task.Description, &status); err != nil {
			return nil, classify("scan record", err)
		}
		r.Task.Status = domain.Status(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("read records", err)
	}
	return records, nil
}

// Insert stores a new record, shifting later siblings, and returns its id.
func (s *Store) Insert(ctx context.Context, rec domain.NewRecord) (int64, error) {
	var id int64
	err := s.withTx(ctx, "insert", func(tx *sql.Tx) error {
		var parentDepth int
		err := tx.QueryRowContext(ctx, `SELECT depth FROM tasks WHERE id = ?`, rec.ParentID).Scan(&parentDepth)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("parent %d does not exist", rec.ParentID)
		}
		if err != nil {
			return err
		}

		if rec.ID != 0 {
			var used int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, rec.ID).Scan(&used); err != nil {
				return err
			}
			if used > 0 {
				return fmt.Errorf("id %d already in use", rec.ID)
			}
		}

		var siblings int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE parent_id = ?`, rec.ParentID).Scan(&siblings); err != nil {
			return err
		}
		pos := rec.Task.Position
		if pos < 1 || pos > siblings+1 {
			pos = siblings + 1
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET position = position + 1 WHERE parent_id = ? AND position >= ?`,
			rec.ParentID, pos); err != nil {
			return err
		}

		status := rec.Task.Status
		if status == "" {
			status = domain.StatusTodo
		}
		var res sql.Result
		if rec.ID != 0 {
			res, err = tx.ExecContext(ctx,
				`INSERT INTO tasks (id, parent_id, depth, position, description, status) VALUES (?, ?, ?, ?, ?, ?)`,
				rec.ID, rec.ParentID, parentDepth+1, pos, rec.Task.Description, string(status))
		} else {
			res, err = tx.ExecContext(ctx,
				`INSERT INTO tasks (parent_id, depth, position, description, status) VALUES (?, ?, ?, ?, ?)`,
				rec.ParentID, parentDepth+1, pos, rec.Task.Description, string(status))
		}
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes a record and its descendants and closes the sibling gap.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete", func(tx *sql.Tx) error {
		var (
			parentID sql.NullInt64
			position int
		)
		err := tx.QueryRowContext(ctx, `SELECT parent_id, position FROM tasks WHERE id = ?`, id).Scan(&parentID, &position)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("id %d does not exist", id)
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			WITH RECURSIVE subtree(id) AS (
				SELECT ?
				UNION ALL
				SELECT t.id FROM tasks t JOIN subtree ON t.parent_id = subtree.id
			)
			DELETE FROM tasks WHERE id IN (SELECT id FROM subtree)`, id); err != nil {
			return err
		}

		if !parentID.Valid {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE tasks SET position = position - 1 WHERE parent_id = ? AND position > ?`,
			parentID.Int64, position)
		return err
	})
}

// UpdateStatus sets the completion status of a record.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	return s.withTx(ctx, "update status", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("id %d does not exist", id)
		}
		return nil
	})
}

// PumpkinTime returns the stored daily reset time, or the default.
func (s *Store) PumpkinTime(ctx context.Context) (domain.PumpkinTime, error) {
	var p domain.PumpkinTime
	err := s.withTx(ctx, "read pumpkin time", func(tx *sql.Tx) error {
		var err error
		p, err = s.pumpkinTimeTx(ctx, tx)
		return err
	})
	return p, err
}

// ConfigurePumpkinTime persists a new daily reset time.
func (s *Store) ConfigurePumpkinTime(ctx context.Context, p domain.PumpkinTime) error {
	return s.withTx(ctx, "configure pumpkin time", func(tx *sql.Tx) error {
		return setMetaTx(ctx, tx, metaPumpkinTime, p.String())
	})
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return classify(op, err)
	}
	if err := tx.Commit(); err != nil {
		return classify(op, err)
	}
	return nil
}

func (s *Store) pumpkinTimeTx(ctx context.Context, tx *sql.Tx) (domain.PumpkinTime, error) {
	v, ok, err := metaTx(ctx, tx, metaPumpkinTime)
	if err != nil || !ok {
		return s.defaultPumpkin, err
	}
	return domain.ParsePumpkinTime(v)
}

func lastInitializedTx(ctx context.Context, tx *sql.Tx) (time.Time, error) {
	v, ok, err := metaTx(ctx, tx, metaLastInitialized)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", metaLastInitialized, err)
	}
	return t, nil
}

func metaTx(ctx context.Context, tx *sql.Tx, key string) (string, bool, error) {
	var v string
	err := tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func setMetaTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// classify wraps err as ErrStoreUnavailable when the connection is gone
// and as ErrStoreTransaction otherwise.
func classify(op string, err error) error {
	if errors.Is(err, domain.ErrStoreTransaction) || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, domain.ErrInvalidPumpkinTime) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreTransaction, op, err)
}

// Ensure Store implements domain.TaskStore.
var _ domain.TaskStore = (*Store)(nil)
