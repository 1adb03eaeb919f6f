package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job status constants
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// AssignmentJob trạng thái của một job gán ps/sec chạy nền
type AssignmentJob struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-" msgpack:"-"`
	JobID     string             `bson:"job_id" json:"job_id" msgpack:"job_id"`
	Status    string             `bson:"status" json:"status" msgpack:"status"`
	Progress  float64            `bson:"progress" json:"progress" msgpack:"progress"` // 0.0 - 1.0
	Processed int                `bson:"processed" json:"processed" msgpack:"processed"`
	Total     int                `bson:"total" json:"total" msgpack:"total"`
	Message   string             `bson:"message" json:"message" msgpack:"message"`
	Error     string             `bson:"error,omitempty" json:"error,omitempty" msgpack:"error,omitempty"`
	ErrorCode string             `bson:"error_code,omitempty" json:"error_code,omitempty" msgpack:"error_code,omitempty"`
	Summary   *BatchSummary      `bson:"summary,omitempty" json:"summary,omitempty" msgpack:"summary,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at" msgpack:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at" msgpack:"updated_at"`
}

// NewAssignmentJob tạo job mới ở trạng thái pending
func NewAssignmentJob(jobID string, total int) *AssignmentJob {
	now := time.Now()
	return &AssignmentJob{
		JobID:     jobID,
		Status:    JobStatusPending,
		Total:     total,
		Message:   "Job đang chờ xử lý",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Finished kiểm tra job đã kết thúc (done hoặc failed)
func (j *AssignmentJob) Finished() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}
