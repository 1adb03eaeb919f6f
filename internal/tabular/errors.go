package tabular

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns bảng input thiếu cột bắt buộc
	ErrMissingColumns = errors.New("tabular: missing required columns")
	// ErrInvalidCode ô ps/sec không phải số nguyên
	ErrInvalidCode = errors.New("tabular: invalid integer code")
	// ErrUnsupportedFormat định dạng file không hỗ trợ
	ErrUnsupportedFormat = errors.New("tabular: unsupported format")
)

// MissingColumnsError liệt kê tất cả cột bắt buộc bị thiếu của một bảng
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("tabular: %s table is missing required column(s): %s", e.Table, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// CodeError ô mã không hợp lệ
type CodeError struct {
	Row    int
	Column string
	Value  string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("tabular: row %d, column %s: %q is not an integer", e.Row, e.Column, e.Value)
}

func (e *CodeError) Unwrap() error { return ErrInvalidCode }
