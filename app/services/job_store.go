package services

import (
	"context"

	"github.com/ps-assigner/app/models"
)

// JobStoreStats thống kê job store
type JobStoreStats struct {
	Backend   string `json:"backend"`
	TotalJobs int64  `json:"total_jobs"`
	TotalHits int64  `json:"total_hits"`
	TotalMiss int64  `json:"total_miss"`
}

// IJobStore interface lưu trạng thái và kết quả của job chạy nền
type IJobStore interface {
	// SaveJob tạo mới hoặc cập nhật trạng thái job
	SaveJob(ctx context.Context, job *models.AssignmentJob) error

	// GetJob lấy trạng thái job, ErrJobNotFound nếu không có
	GetJob(ctx context.Context, jobID string) (*models.AssignmentJob, error)

	// SaveResults lưu toàn bộ kết quả của job
	SaveResults(ctx context.Context, jobID string, results []models.AssignmentResult) error

	// GetResults lấy kết quả job, ErrJobNotFound nếu không có
	GetResults(ctx context.Context, jobID string) ([]models.AssignmentResult, error)

	// Delete xóa job và kết quả
	Delete(ctx context.Context, jobID string) error

	// GetStats lấy thống kê
	GetStats(ctx context.Context) (*JobStoreStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}
