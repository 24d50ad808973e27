package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists records in a single items table keyed by table name and
// partition key. Rows are append-only.
type SQLite struct {
	db           *sql.DB
	dataSource   string
	queryTimeout time.Duration
}

// NewSQLite opens the database named by connectionString and applies the
// schema migrations. Accepted forms: sqlite://path, sqlite:path, or a bare path.
func NewSQLite(connectionString string) (*SQLite, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps concurrent executions from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{
		db:           db,
		dataSource:   dsn,
		queryTimeout: 30 * time.Second,
	}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) PutRecord(ctx context.Context, table string, record any) (PutResult, error) {
	if table == "" {
		return PutResult{}, ErrMissingTable
	}

	body, err := json.Marshal(record)
	if err != nil {
		return PutResult{}, fmt.Errorf("marshal record: %w", err)
	}
	pk, sk := RecordKey(record)

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (table_name, partition_key, sort_key, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		table, pk, sk, string(body), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return PutResult{}, fmt.Errorf("insert into %s: %w", table, err)
	}

	return PutResult{OK: true}, nil
}

func (s *SQLite) ListRecords(ctx context.Context, table, partitionKey string) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM items WHERE table_name = ? AND partition_key = ? ORDER BY id`,
		table, partitionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]json.RawMessage, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, json.RawMessage(body))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// parseConnectionString turns a connection string into a go-sqlite3 DSN.
// Supported formats:
// - sqlite://path/to/db.sqlite
// - sqlite:./test.db
// - ./plain/path.db
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)

	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		connStr = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		connStr = strings.TrimPrefix(connStr, "sqlite:")
	case strings.Contains(connStr, "://"):
		return "", fmt.Errorf("unsupported database scheme: %s", connStr[:strings.Index(connStr, "://")])
	}

	if connStr == "" {
		return "", fmt.Errorf("invalid connection string: empty path")
	}

	if !strings.Contains(connStr, "_busy_timeout") {
		sep := "?"
		if strings.Contains(connStr, "?") {
			sep = "&"
		}
		connStr += sep + "_busy_timeout=5000"
	}

	return connStr, nil
}
