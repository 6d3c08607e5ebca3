// Package db provides PostgreSQL storage for submitted CV documents.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/cv-uploader/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the document table and its indexes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRecord stores a submission as a JSON document in the given collection and returns its ID.
func (db *DB) CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO cv_documents (id, collection, document, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		uuid.New(), collection, body, record.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create record in %s: %w", collection, err)
	}
	return id.String(), nil
}

// GetRecord retrieves one document by ID. It returns nil when the record does not exist.
func (db *DB) GetRecord(ctx context.Context, collection, id string) (*types.StoredRecord, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", id, err)
	}

	var row Document
	err = db.pool.QueryRow(ctx,
		`SELECT id, collection, document, created_at
		 FROM cv_documents WHERE collection = $1 AND id = $2`,
		collection, recordID,
	).Scan(&row.ID, &row.Collection, &row.Body, &row.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	rec, err := row.Decode()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecords retrieves the most recent documents of a collection, newest first.
func (db *DB) ListRecords(ctx context.Context, collection string, limit int) ([]types.StoredRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, collection, document, created_at
		 FROM cv_documents WHERE collection = $1
		 ORDER BY created_at DESC LIMIT $2`,
		collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []types.StoredRecord
	for rows.Next() {
		var row Document
		if err := rows.Scan(&row.ID, &row.Collection, &row.Body, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := row.Decode()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of documents in a collection.
func (db *DB) CountRecords(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cv_documents WHERE collection = $1`,
		collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
