package services

import (
	"errors"
	"fmt"

	"github.com/ps-assigner/internal/encoder"
	"github.com/ps-assigner/internal/search"
	"github.com/ps-assigner/internal/tabular"
)

var (
	ErrJobNotFound  = errors.New("job không tồn tại")
	ErrJobNotReady  = errors.New("job chưa hoàn thành")
	ErrTooManyRows  = errors.New("vượt quá số dòng cho phép")
	ErrInvalidInput = errors.New("input không hợp lệ")
)

// Error codes trả về cho client
const (
	CodeMissingColumns    = "MISSING_COLUMNS"
	CodeKeyOverflow       = "KEY_OVERFLOW"
	CodeOverlappingRanges = "OVERLAPPING_RANGES"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeJobNotFound       = "JOB_NOT_FOUND"
	CodeJobNotReady       = "JOB_NOT_READY"
	CodeInternalError     = "INTERNAL_ERROR"
)

// RowError lỗi gắn với một dòng của bảng house
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("dòng %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ErrorCode ánh xạ lỗi sang mã lỗi API
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tabular.ErrMissingColumns):
		return CodeMissingColumns
	case errors.Is(err, encoder.ErrKeyOverflow):
		return CodeKeyOverflow
	case errors.Is(err, search.ErrOverlappingRanges):
		return CodeOverlappingRanges
	case errors.Is(err, ErrJobNotFound):
		return CodeJobNotFound
	case errors.Is(err, ErrJobNotReady):
		return CodeJobNotReady
	case errors.Is(err, tabular.ErrInvalidCode),
		errors.Is(err, tabular.ErrUnsupportedFormat),
		errors.Is(err, search.ErrInvalidPolicy),
		errors.Is(err, ErrTooManyRows),
		errors.Is(err, ErrInvalidInput):
		return CodeInvalidRequest
	}
	return CodeInternalError
}
