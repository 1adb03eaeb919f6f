package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format định dạng file input/output
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ContentType MIME type của format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatNDJSON:
		return "application/x-ndjson"
	default:
		return "application/json"
	}
}

// ParseFormat parse tên format ("xlsx", "CSV", ...)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON, FormatNDJSON:
		return f, nil
	case "xls", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromName xác định format input theo phần mở rộng của file.
// Chỉ csv và xls/xlsx được chấp nhận làm input.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xls", ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q (expected .csv, .xls or .xlsx)", ErrUnsupportedFormat, name)
}
