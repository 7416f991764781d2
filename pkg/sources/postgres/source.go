package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/leapstack-labs/flowlens/pkg/core"
	"github.com/leapstack-labs/flowlens/pkg/source"
)

// DefaultTable is the table read when params.table is unset.
const DefaultTable = "components"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Params configures the PostgreSQL source. Either DSN or Database is required;
// the discrete connection fields are only used when DSN is empty.
type Params struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Table    string `mapstructure:"table"`
}

// Source reads component records from a PostgreSQL table.
//
// The table is expected to have the columns id, name, label, health_state,
// health_message, health_updated_at (timestamptz) and references_to /
// referenced_by holding JSON arrays of component IDs.
type Source struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Open connects to PostgreSQL using params decoded from the source config.
func Open(ctx context.Context, raw map[string]any, logger *slog.Logger) (source.Source, error) {
	var p Params
	if err := source.DecodeParams(raw, &p); err != nil {
		return nil, err
	}

	dsn := p.DSN
	if dsn == "" {
		if p.Database == "" {
			return nil, fmt.Errorf("postgres source requires params.dsn or params.database")
		}
		dsn = buildPostgresDSN(p)
	}

	table := p.Table
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return NewWithDB(db, table, logger), nil
}

// NewWithDB wraps an existing connection. The table name is not validated.
func NewWithDB(db *sql.DB, table string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{db: db, table: table, logger: logger}
}

// buildPostgresDSN constructs a key=value connection string.
func buildPostgresDSN(p Params) string {
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, p.Database, sslmode)
	if p.Username != "" {
		dsn += fmt.Sprintf(" user=%s", p.Username)
	}
	if p.Password != "" {
		dsn += fmt.Sprintf(" password=%s", p.Password)
	}
	return dsn
}

func selectQuery(table string) string {
	return fmt.Sprintf(`SELECT id, COALESCE(name, ''), COALESCE(label, ''), COALESCE(health_state, ''), `+
		`COALESCE(health_message, ''), health_updated_at, COALESCE(references_to, '[]'), COALESCE(referenced_by, '[]') `+
		`FROM %s`, table)
}

// LoadComponents returns every row of the table ordered by ID.
func (s *Source) LoadComponents(ctx context.Context) ([]core.ComponentRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := s.db.QueryContext(ctx, selectQuery(s.table)+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []core.ComponentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}

	core.ResolveReferences(records)
	s.logger.Debug("loaded components", "table", s.table, "count", len(records))
	return records, nil
}

// GetComponent reads a single row by ID.
func (s *Source) GetComponent(ctx context.Context, id string) (*core.ComponentRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectQuery(s.table)+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrComponentNotFound, id)
	}
	return rec, err
}

// Close closes the connection.
func (s *Source) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*core.ComponentRecord, error) {
	var (
		rec            core.ComponentRecord
		state          string
		updated        sql.NullTime
		refsTo, refsBy string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Label, &state, &rec.Health.Message, &updated, &refsTo, &refsBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan component: %w", err)
	}

	rec.Health.State = core.ParseHealthState(state)
	if updated.Valid {
		rec.Health.UpdatedTime = updated.Time.UTC()
	}
	if err := json.Unmarshal([]byte(refsTo), &rec.ReferencesTo); err != nil {
		return nil, fmt.Errorf("component %s: invalid references_to: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(refsBy), &rec.ReferencedBy); err != nil {
		return nil, fmt.Errorf("component %s: invalid referenced_by: %w", rec.ID, err)
	}
	if len(rec.ReferencesTo) == 0 {
		rec.ReferencesTo = nil
	}
	if len(rec.ReferencedBy) == 0 {
		rec.ReferencedBy = nil
	}

	rec.Normalize()
	return &rec, nil
}
