package responses

import (
	"github.com/ps-assigner/app/models"
)

// EncodeResponse response mã hóa một H_No
type EncodeResponse struct {
	RawHouseNo   string `json:"raw_house_no"`   // H_No gốc
	CleanHouseNo string `json:"clean_house_no"` // H_No sau khi bỏ nhãn
	DhNo         string `json:"dh_no"`          // Structured key
	SortKey      string `json:"sort_key"`       // 30 chữ số
	Depth        int    `json:"depth"`          // Độ sâu, quyết định padding
}

// AssignmentResponse response gán đồng bộ
type AssignmentResponse struct {
	Results []models.AssignmentResult `json:"results"` // Kết quả theo thứ tự dòng house
	Summary models.BatchSummary       `json:"summary"` // Thống kê batch
}

// SubmitJobResponse response tạo job
type SubmitJobResponse struct {
	JobID       string `json:"job_id"`       // ID của job
	TotalHouses int    `json:"total_houses"` // Tổng số dòng house
	StatusURL   string `json:"status_url"`   // Endpoint theo dõi trạng thái
	Message     string `json:"message"`      // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	JobID     string               `json:"job_id"`               // ID của job
	Status    string               `json:"status"`               // Trạng thái job
	Progress  float64              `json:"progress"`             // Tiến độ (0.0 - 1.0)
	Processed int                  `json:"processed"`            // Số dòng đã xử lý
	Total     int                  `json:"total"`                // Tổng số dòng
	Message   string               `json:"message"`              // Thông báo
	Error     string               `json:"error,omitempty"`      // Lỗi nếu job thất bại
	ErrorCode string               `json:"error_code,omitempty"` // Mã lỗi nếu job thất bại
	Summary   *models.BatchSummary `json:"summary,omitempty"`    // Thống kê khi hoàn thành
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản
	Services  map[string]string `json:"services"`  // Trạng thái các service
}
