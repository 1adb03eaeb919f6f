package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ps-assigner/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// resultChunkSize số dòng kết quả trong một document, tránh giới hạn 16MB
const resultChunkSize = 5000

// resultChunk một phần kết quả của job
type resultChunk struct {
	JobID     string                    `bson:"job_id"`
	Chunk     int                       `bson:"chunk"`
	Rows      []models.AssignmentResult `bson:"rows"`
	UpdatedAt time.Time                 `bson:"updated_at"`
}

// MongoJobStore job store persistent sử dụng MongoDB
type MongoJobStore struct {
	jobs    *mongo.Collection
	results *mongo.Collection
	logger  *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMongoJobStore tạo mới MongoJobStore, tạo indexes và TTL index theo ttl
func NewMongoJobStore(db *mongo.Database, ttl time.Duration, logger *zap.Logger) (*MongoJobStore, error) {
	store := &MongoJobStore{
		jobs:    db.Collection("assignment_jobs"),
		results: db.Collection("assignment_results"),
		logger:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	expire := int32(ttl.Seconds())
	jobIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(expire),
		},
	}
	resultIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "job_id", Value: 1}, bson.E{Key: "chunk", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(expire),
		},
	}

	if _, err := store.jobs.Indexes().CreateMany(ctx, jobIndexes); err != nil {
		logger.Warn("Không thể tạo indexes cho assignment_jobs", zap.Error(err))
	}
	if _, err := store.results.Indexes().CreateMany(ctx, resultIndexes); err != nil {
		logger.Warn("Không thể tạo indexes cho assignment_results", zap.Error(err))
	}

	return store, nil
}

// SaveJob upsert trạng thái job theo job_id
func (s *MongoJobStore) SaveJob(ctx context.Context, job *models.AssignmentJob) error {
	doc := copyJob(job)
	doc.ID = primitive.NilObjectID

	filter := bson.M{"job_id": job.JobID}
	_, err := s.jobs.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("lỗi lưu job vào MongoDB: %w", err)
	}
	return nil
}

// GetJob lấy trạng thái job
func (s *MongoJobStore) GetJob(ctx context.Context, jobID string) (*models.AssignmentJob, error) {
	var job models.AssignmentJob
	err := s.jobs.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.misses.Add(1)
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lỗi query job: %w", err)
	}
	s.hits.Add(1)
	return &job, nil
}

// SaveResults lưu kết quả thành các chunk resultChunkSize dòng
func (s *MongoJobStore) SaveResults(ctx context.Context, jobID string, results []models.AssignmentResult) error {
	if _, err := s.results.DeleteMany(ctx, bson.M{"job_id": jobID}); err != nil {
		return fmt.Errorf("lỗi xóa kết quả cũ: %w", err)
	}

	now := time.Now()
	var docs []interface{}
	for chunk, start := 0, 0; start < len(results) || chunk == 0; chunk, start = chunk+1, start+resultChunkSize {
		end := min(start+resultChunkSize, len(results))
		docs = append(docs, resultChunk{
			JobID:     jobID,
			Chunk:     chunk,
			Rows:      results[start:end],
			UpdatedAt: now,
		})
	}

	if _, err := s.results.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("lỗi lưu kết quả vào MongoDB: %w", err)
	}
	s.logger.Debug("Đã lưu kết quả vào MongoDB",
		zap.String("job_id", jobID),
		zap.Int("rows", len(results)),
		zap.Int("chunks", len(docs)))
	return nil
}

// GetResults đọc lại các chunk theo thứ tự
func (s *MongoJobStore) GetResults(ctx context.Context, jobID string) ([]models.AssignmentResult, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "chunk", Value: 1}})
	cursor, err := s.results.Find(ctx, bson.M{"job_id": jobID}, opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query kết quả: %w", err)
	}
	defer cursor.Close(ctx)

	var (
		results []models.AssignmentResult
		found   bool
	)
	for cursor.Next(ctx) {
		var c resultChunk
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("lỗi decode kết quả: %w", err)
		}
		found = true
		results = append(results, c.Rows...)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if !found {
		s.misses.Add(1)
		return nil, ErrJobNotFound
	}
	s.hits.Add(1)
	return results, nil
}

// Delete xóa job và kết quả
func (s *MongoJobStore) Delete(ctx context.Context, jobID string) error {
	if _, err := s.jobs.DeleteOne(ctx, bson.M{"job_id": jobID}); err != nil {
		return err
	}
	_, err := s.results.DeleteMany(ctx, bson.M{"job_id": jobID})
	return err
}

// GetStats lấy thống kê
func (s *MongoJobStore) GetStats(ctx context.Context) (*JobStoreStats, error) {
	total, err := s.jobs.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("lỗi đếm job: %w", err)
	}
	return &JobStoreStats{
		Backend:   "mongo",
		TotalJobs: total,
		TotalHits: s.hits.Load(),
		TotalMiss: s.misses.Load(),
	}, nil
}

// Close không đóng client; client do main quản lý
func (s *MongoJobStore) Close() error {
	return nil
}
