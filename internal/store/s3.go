package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/jonathan/cv-uploader/internal/config"
	"github.com/jonathan/cv-uploader/internal/types"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store writes one JSON object per record at <prefix><collection>/<id>.json.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store builds an S3 client from cfg. A custom endpoint (R2, MinIO) switches
// the client to path-style addressing.
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) collectionPrefix(collection string) string {
	return s.prefix + collection + "/"
}

func (s *S3Store) key(collection, id string) string {
	return s.collectionPrefix(collection) + id + ".json"
}

// CreateRecord uploads the record as a JSON object.
func (s *S3Store) CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	id := uuid.NewString()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(collection, id)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return id, nil
}

// GetRecord downloads one object. A missing key yields nil.
func (s *S3Store) GetRecord(ctx context.Context, collection, id string) (*types.StoredRecord, error) {
	rec, err := s.getRecord(ctx, s.key(collection, id))
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, err
	}
	return &types.StoredRecord{ID: id, Collection: collection, Record: rec}, nil
}

// ListRecords returns up to limit records, newest object first.
func (s *S3Store) ListRecords(ctx context.Context, collection string, limit int) ([]types.StoredRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var objects []s3types.Object
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.collectionPrefix(collection)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		objects = append(objects, page.Contents...)
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return aws.ToTime(objects[i].LastModified).After(aws.ToTime(objects[j].LastModified))
	})
	if len(objects) > limit {
		objects = objects[:limit]
	}

	records := make([]types.StoredRecord, 0, len(objects))
	for _, obj := range objects {
		key := aws.ToString(obj.Key)
		rec, err := s.getRecord(ctx, key)
		if err != nil {
			return nil, err
		}
		records = append(records, types.StoredRecord{
			ID:         strings.TrimSuffix(strings.TrimPrefix(key, s.collectionPrefix(collection)), ".json"),
			Collection: collection,
			Record:     rec,
		})
	}
	return records, nil
}

func (s *S3Store) getRecord(ctx context.Context, key string) (types.SubmissionRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return types.SubmissionRecord{}, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return types.SubmissionRecord{}, fmt.Errorf("failed to read object body: %w", err)
	}

	var rec types.SubmissionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.SubmissionRecord{}, fmt.Errorf("failed to decode object %s: %w", key, err)
	}
	return rec, nil
}

// Close is a no-op; the S3 client holds no long-lived connections of its own.
func (s *S3Store) Close() error { return nil }
