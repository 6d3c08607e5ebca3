// Package store selects and implements the document stores CV submissions are written to.
package store

import (
	"context"
	"fmt"

	"github.com/jonathan/cv-uploader/internal/config"
	"github.com/jonathan/cv-uploader/internal/db"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/rs/zerolog"
)

// Store is a document store. CreateRecord satisfies form.Recorder; GetRecord and
// ListRecords back operator tooling only.
type Store interface {
	CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error)
	// GetRecord returns nil when no record has the id.
	GetRecord(ctx context.Context, collection, id string) (*types.StoredRecord, error)
	ListRecords(ctx context.Context, collection string, limit int) ([]types.StoredRecord, error)
	Close() error
}

// defaultListLimit applies when ListRecords is called with a non-positive limit.
const defaultListLimit = 50

// Open connects to the backend named in cfg. The returned Store is meant to be
// created once at start-up and shared.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", cfg.Backend).Msg("document store connected")
		return &postgresStore{DB: database}, nil
	case config.BackendS3:
		s, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", cfg.Backend).Str("bucket", cfg.S3.Bucket).Msg("document store connected")
		return s, nil
	case config.BackendRedis:
		s, err := NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", cfg.Backend).Msg("document store connected")
		return s, nil
	case config.BackendMemory:
		logger.Warn().Msg("using in-memory document store; submissions are lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// postgresStore adapts *db.DB to Store.
type postgresStore struct {
	*db.DB
}

func (p *postgresStore) Close() error {
	p.DB.Close()
	return nil
}
