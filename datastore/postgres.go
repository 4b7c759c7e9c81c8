package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/coreybb/checkin/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 5 * time.Minute
)

// PostgresStore appends records to a Postgres table. Typed columns hold the
// fields every record carries; the full record is kept as JSONB.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore wraps an open pool. table is quoted as an identifier, so
// names with spaces such as "Daily Logs" are valid.
func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("INFO: Database connection successful")
	return db, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

// EnsureTable creates the target table when it does not exist yet.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			entry_date  DATE NOT NULL,
			entry_type  TEXT NOT NULL,
			source      TEXT NOT NULL,
			fields      JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)
	`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, fields models.Fields) error {
	row, err := newRecordRow(fields, time.Now().UTC())
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, entry_date, entry_type, source, fields, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.table)
	_, err = s.db.ExecContext(ctx, query,
		row.ID, row.EntryDate, row.EntryType, row.Source, row.Fields, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	query := fmt.Sprintf(`SELECT 1 FROM %s LIMIT 1`, s.table)
	var one int
	err := s.db.QueryRowContext(ctx, query).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read from %s: %w", s.table, err)
	}
	return nil
}

type recordRow struct {
	ID        string
	EntryDate string
	EntryType string
	Source    string
	Fields    []byte
	CreatedAt time.Time
}

func newRecordRow(fields models.Fields, now time.Time) (recordRow, error) {
	date, _ := fields[models.FieldDate].(string)
	entryType, _ := fields[models.FieldEntryType].(string)
	source, _ := fields[models.FieldSource].(string)
	if date == "" || entryType == "" || source == "" {
		return recordRow{}, fmt.Errorf("missing required fields for creating record")
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return recordRow{}, fmt.Errorf("failed to encode record fields: %w", err)
	}

	return recordRow{
		ID:        uuid.NewString(),
		EntryDate: date,
		EntryType: entryType,
		Source:    source,
		Fields:    encoded,
		CreatedAt: now,
	}, nil
}
