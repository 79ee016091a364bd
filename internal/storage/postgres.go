package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/job-intake/internal/normalize"
)

const archiveTarget = "postgres intake_records"

const createTableSQL = `CREATE TABLE IF NOT EXISTS intake_records (
	id          UUID PRIMARY KEY,
	schema_name TEXT NOT NULL,
	record      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// ArchivedRecord is one row of intake_records.
type ArchivedRecord struct {
	ID         uuid.UUID         `json:"id"`
	SchemaName string            `json:"schema_name"`
	Record     map[string]string `json:"record"`
	CreatedAt  time.Time         `json:"created_at"`
}

// PostgresStore archives every finalized record in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, verifies the connection and creates the archive table if needed.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create intake_records table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Save inserts the record under a fresh id.
func (p *PostgresStore) Save(ctx context.Context, rec *normalize.Record) error {
	_, err := p.Insert(ctx, rec)
	return err
}

// Insert stores the record and returns its id.
func (p *PostgresStore) Insert(ctx context.Context, rec *normalize.Record) (uuid.UUID, error) {
	data, err := rec.MarshalJSON()
	if err != nil {
		return uuid.Nil, &PersistenceError{Target: archiveTarget, Cause: err}
	}

	id := uuid.New()
	_, err = p.pool.Exec(ctx,
		`INSERT INTO intake_records (id, schema_name, record) VALUES ($1, $2, $3)`,
		id, rec.Schema().Name(), data,
	)
	if err != nil {
		return uuid.Nil, &PersistenceError{Target: archiveTarget, Cause: err}
	}
	return id, nil
}

// Get returns one archived record, or nil if the id is unknown.
func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*ArchivedRecord, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, schema_name, record, created_at FROM intake_records WHERE id = $1`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	return rec, nil
}

// Recent lists the newest records first.
func (p *PostgresStore) Recent(ctx context.Context, limit int) ([]ArchivedRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, schema_name, record, created_at FROM intake_records ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []ArchivedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (*ArchivedRecord, error) {
	var (
		rec  ArchivedRecord
		data []byte
	)
	if err := row.Scan(&rec.ID, &rec.SchemaName, &data, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.Record); err != nil {
		return nil, err
	}
	return &rec, nil
}
