package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record as a JSON string and indexes ids in a sorted set
// scored by creation time.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL (redis:// or rediss://) and pings it.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func recordKey(collection, id string) string {
	return fmt.Sprintf("cv:%s:%s", collection, id)
}

func indexKey(collection string) string {
	return fmt.Sprintf("cv:%s:index", collection)
}

// CreateRecord stores the document and its index entry in one pipeline.
func (r *RedisStore) CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	id := uuid.NewString()
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, recordKey(collection, id), body, 0)
	pipe.ZAdd(ctx, indexKey(collection), redis.Z{
		Score:  float64(record.CreatedAt.UnixNano()),
		Member: id,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}
	return id, nil
}

// GetRecord reads one document. A missing key yields nil.
func (r *RedisStore) GetRecord(ctx context.Context, collection, id string) (*types.StoredRecord, error) {
	body, err := r.client.Get(ctx, recordKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var rec types.SubmissionRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}
	return &types.StoredRecord{ID: id, Collection: collection, Record: rec}, nil
}

// ListRecords returns up to limit records, newest first.
func (r *RedisStore) ListRecords(ctx context.Context, collection string, limit int) ([]types.StoredRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	ids, err := r.client.ZRevRange(ctx, indexKey(collection), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(collection, id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	records := make([]types.StoredRecord, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// index entry without a document
			continue
		}
		var rec types.SubmissionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", ids[i], err)
		}
		records = append(records, types.StoredRecord{ID: ids[i], Collection: collection, Record: rec})
	}
	return records, nil
}

// Close closes the redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
