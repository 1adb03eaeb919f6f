package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ps-assigner/app/models"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// RedisJobStore job store sử dụng Redis, dữ liệu encode bằng msgpack
type RedisJobStore struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	// Stats
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisJobStore tạo mới Redis job store
func NewRedisJobStore(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisJobStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	return NewRedisJobStoreWithClient(client, ttl, logger), nil
}

// NewRedisJobStoreWithClient dùng client có sẵn
func NewRedisJobStoreWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisJobStore {
	return &RedisJobStore{
		client: client,
		logger: logger,
		prefix: "ps_assign:",
		ttl:    ttl,
	}
}

func (s *RedisJobStore) jobKey(jobID string) string     { return s.prefix + "job:" + jobID }
func (s *RedisJobStore) resultsKey(jobID string) string { return s.prefix + "results:" + jobID }

// SaveJob lưu trạng thái job
func (s *RedisJobStore) SaveJob(ctx context.Context, job *models.AssignmentJob) error {
	data, err := msgpack.Marshal(job)
	if err != nil {
		return fmt.Errorf("lỗi marshal job: %w", err)
	}
	if err := s.client.Set(ctx, s.jobKey(job.JobID), data, s.ttl).Err(); err != nil {
		s.logger.Error("Lỗi set job vào Redis", zap.Error(err), zap.String("job_id", job.JobID))
		return err
	}
	return nil
}

// GetJob lấy trạng thái job
func (s *RedisJobStore) GetJob(ctx context.Context, jobID string) (*models.AssignmentJob, error) {
	data, err := s.client.Get(ctx, s.jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.misses.Add(1)
		return nil, ErrJobNotFound
	}
	if err != nil {
		s.logger.Error("Lỗi get job từ Redis", zap.Error(err), zap.String("job_id", jobID))
		return nil, err
	}

	var job models.AssignmentJob
	if err := msgpack.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("lỗi unmarshal job: %w", err)
	}
	s.hits.Add(1)
	return &job, nil
}

// SaveResults lưu kết quả job
func (s *RedisJobStore) SaveResults(ctx context.Context, jobID string, results []models.AssignmentResult) error {
	data, err := msgpack.Marshal(results)
	if err != nil {
		return fmt.Errorf("lỗi marshal kết quả: %w", err)
	}
	if err := s.client.Set(ctx, s.resultsKey(jobID), data, s.ttl).Err(); err != nil {
		s.logger.Error("Lỗi set kết quả vào Redis", zap.Error(err), zap.String("job_id", jobID))
		return err
	}
	s.logger.Debug("Đã lưu kết quả vào Redis",
		zap.String("job_id", jobID),
		zap.Int("rows", len(results)),
		zap.Int("bytes", len(data)))
	return nil
}

// GetResults lấy kết quả job
func (s *RedisJobStore) GetResults(ctx context.Context, jobID string) ([]models.AssignmentResult, error) {
	data, err := s.client.Get(ctx, s.resultsKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.misses.Add(1)
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var results []models.AssignmentResult
	if err := msgpack.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("lỗi unmarshal kết quả: %w", err)
	}
	s.hits.Add(1)
	return results, nil
}

// Delete xóa job và kết quả
func (s *RedisJobStore) Delete(ctx context.Context, jobID string) error {
	return s.client.Del(ctx, s.jobKey(jobID), s.resultsKey(jobID)).Err()
}

// GetStats lấy thống kê
func (s *RedisJobStore) GetStats(ctx context.Context) (*JobStoreStats, error) {
	var total int64
	iter := s.client.Scan(ctx, 0, s.prefix+"job:*", 100).Iterator()
	for iter.Next(ctx) {
		total++
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("Không thể đếm job trong Redis", zap.Error(err))
	}

	return &JobStoreStats{
		Backend:   "redis",
		TotalJobs: total,
		TotalHits: s.hits.Load(),
		TotalMiss: s.misses.Load(),
	}, nil
}

// Close đóng kết nối Redis
func (s *RedisJobStore) Close() error {
	return s.client.Close()
}
