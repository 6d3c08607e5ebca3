package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-uploader/internal/types"
)

// schemaSQL is applied by EnsureSchema. Documents are schemaless JSONB; only the
// collection and creation time are lifted into columns for listing.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS cv_documents (
	id          UUID PRIMARY KEY,
	collection  TEXT NOT NULL,
	document    JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS cv_documents_collection_created_idx
	ON cv_documents (collection, created_at DESC);
`

// Document represents a row of cv_documents
type Document struct {
	ID         uuid.UUID `json:"id"`
	Collection string    `json:"collection"`
	Body       []byte    `json:"document"`
	CreatedAt  time.Time `json:"created_at"`
}

// Decode unmarshals the stored JSON body into a StoredRecord.
func (d Document) Decode() (types.StoredRecord, error) {
	var rec types.SubmissionRecord
	if err := json.Unmarshal(d.Body, &rec); err != nil {
		return types.StoredRecord{}, fmt.Errorf("failed to decode record %s: %w", d.ID, err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = d.CreatedAt
	}
	return types.StoredRecord{
		ID:         d.ID.String(),
		Collection: d.Collection,
		Record:     rec,
	}, nil
}
