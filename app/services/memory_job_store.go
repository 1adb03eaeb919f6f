package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/ps-assigner/app/models"
)

// MemoryJobStore job store in-memory, job hết hạn sau ttl
type MemoryJobStore struct {
	jobs    *expirable.LRU[string, models.AssignmentJob]
	results *expirable.LRU[string, []models.AssignmentResult]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryJobStore tạo mới MemoryJobStore. maxJobs <= 0 là không giới hạn.
func NewMemoryJobStore(maxJobs int, ttl time.Duration) *MemoryJobStore {
	return &MemoryJobStore{
		jobs:    expirable.NewLRU[string, models.AssignmentJob](maxJobs, nil, ttl),
		results: expirable.NewLRU[string, []models.AssignmentResult](maxJobs, nil, ttl),
	}
}

// SaveJob lưu bản sao của job
func (s *MemoryJobStore) SaveJob(ctx context.Context, job *models.AssignmentJob) error {
	s.jobs.Add(job.JobID, copyJob(job))
	return nil
}

// GetJob lấy job theo ID
func (s *MemoryJobStore) GetJob(ctx context.Context, jobID string) (*models.AssignmentJob, error) {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		s.misses.Add(1)
		return nil, ErrJobNotFound
	}
	s.hits.Add(1)
	return &job, nil
}

// SaveResults lưu kết quả job
func (s *MemoryJobStore) SaveResults(ctx context.Context, jobID string, results []models.AssignmentResult) error {
	s.results.Add(jobID, results)
	return nil
}

// GetResults lấy kết quả job
func (s *MemoryJobStore) GetResults(ctx context.Context, jobID string) ([]models.AssignmentResult, error) {
	results, ok := s.results.Get(jobID)
	if !ok {
		s.misses.Add(1)
		return nil, ErrJobNotFound
	}
	s.hits.Add(1)
	return results, nil
}

// Delete xóa job và kết quả
func (s *MemoryJobStore) Delete(ctx context.Context, jobID string) error {
	s.jobs.Remove(jobID)
	s.results.Remove(jobID)
	return nil
}

// GetStats lấy thống kê
func (s *MemoryJobStore) GetStats(ctx context.Context) (*JobStoreStats, error) {
	return &JobStoreStats{
		Backend:   "memory",
		TotalJobs: int64(s.jobs.Len()),
		TotalHits: s.hits.Load(),
		TotalMiss: s.misses.Load(),
	}, nil
}

// Close không cần thiết cho in-memory store
func (s *MemoryJobStore) Close() error {
	return nil
}

func copyJob(job *models.AssignmentJob) models.AssignmentJob {
	c := *job
	if job.Summary != nil {
		summary := *job.Summary
		c.Summary = &summary
	}
	return c
}
