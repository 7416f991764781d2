package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/leapstack-labs/flowlens/pkg/core"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements core.ComponentStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// OpenStore opens the database at path and applies migrations.
func OpenStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	store := NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Open opens a connection to the SQLite database.
// Use MemoryPath for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == MemoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state store", "path", path)
	return nil
}

// Path returns the database path passed to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// WatchPath returns the database file so the UI can refresh after a seed.
// In-memory stores have nothing to watch.
func (s *SQLiteStore) WatchPath() string {
	if s.path == MemoryPath {
		return ""
	}
	return s.path
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ReplaceComponents atomically replaces the stored snapshot with records and
// records a new revision.
func (s *SQLiteStore) ReplaceComponents(ctx context.Context, records []core.ComponentRecord) (*core.Revision, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rev := &core.Revision{
		ID:         uuid.New().String(),
		Count:      len(records),
		RecordedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO revisions (id, component_count, recorded_at) VALUES (?, ?, ?)`,
		rev.ID, rev.Count, formatTime(rev.RecordedAt),
	); err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM components`); err != nil {
		return nil, fmt.Errorf("clear components: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO components
		(id, name, label, health_state, health_message, health_updated_at, references_to, referenced_by, revision_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		rec.Normalize()
		refsTo, err := encodeRefs(rec.ReferencesTo)
		if err != nil {
			return nil, err
		}
		refsBy, err := encodeRefs(rec.ReferencedBy)
		if err != nil {
			return nil, err
		}
		var updated sql.NullString
		if !rec.Health.UpdatedTime.IsZero() {
			updated = sql.NullString{String: formatTime(rec.Health.UpdatedTime), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Name, rec.Label, string(rec.Health.State), rec.Health.Message,
			updated, refsTo, refsBy, rev.ID,
		); err != nil {
			return nil, fmt.Errorf("insert component %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("replaced components", "revision", rev.ID, "count", rev.Count)
	return rev, nil
}

const selectComponents = `
	SELECT id, name, label, health_state, health_message, health_updated_at, references_to, referenced_by
	FROM components`

// LoadComponents returns the current snapshot ordered by ID.
func (s *SQLiteStore) LoadComponents(ctx context.Context) ([]core.ComponentRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, selectComponents+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []core.ComponentRecord
	for rows.Next() {
		rec, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}
	return records, nil
}

// GetComponent returns a single component, or core.ErrComponentNotFound.
func (s *SQLiteStore) GetComponent(ctx context.Context, id string) (*core.ComponentRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rec, err := scanComponent(s.db.QueryRowContext(ctx, selectComponents+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrComponentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LatestRevision returns the most recent revision, or ErrNoRevision.
func (s *SQLiteStore) LatestRevision(ctx context.Context) (*core.Revision, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var (
		rev        core.Revision
		recordedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, component_count, recorded_at FROM revisions
		ORDER BY seq DESC
		LIMIT 1
	`).Scan(&rev.ID, &rev.Count, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRevision
	}
	if err != nil {
		return nil, fmt.Errorf("get latest revision: %w", err)
	}

	if rev.RecordedAt, err = parseTime(recordedAt); err != nil {
		return nil, err
	}
	return &rev, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (*core.ComponentRecord, error) {
	var (
		rec            core.ComponentRecord
		state          string
		updated        sql.NullString
		refsTo, refsBy string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Label, &state, &rec.Health.Message, &updated, &refsTo, &refsBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan component: %w", err)
	}

	rec.Health.State = core.ParseHealthState(state)
	if updated.Valid {
		t, err := parseTime(updated.String)
		if err != nil {
			return nil, err
		}
		rec.Health.UpdatedTime = t
	}

	var err error
	if rec.ReferencesTo, err = decodeRefs(refsTo); err != nil {
		return nil, err
	}
	if rec.ReferencedBy, err = decodeRefs(refsBy); err != nil {
		return nil, err
	}
	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func encodeRefs(refs []string) (string, error) {
	if len(refs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("encode references: %w", err)
	}
	return string(data), nil
}

func decodeRefs(s string) ([]string, error) {
	var refs []string
	if err := json.Unmarshal([]byte(s), &refs); err != nil {
		return nil, fmt.Errorf("decode references: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return refs, nil
}
