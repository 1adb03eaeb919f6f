package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// reHouseLabel khớp nhãn đứng đầu kiểu "H.No:", "h no", "HNO." ...
var reHouseLabel = regexp.MustCompile(`(?i)^\s*h\s*\.?\s*no\s*[:.]?\s*`)

// CleanHouseNo bỏ nhãn "H.No" ở đầu chuỗi và trim khoảng trắng.
//
// Nhãn được bỏ lặp lại cho tới khi không còn, nên
// CleanHouseNo(CleanHouseNo(x)) == CleanHouseNo(x) với mọi x.
// Chuỗi không có nhãn chỉ được trim, nội dung giữ nguyên.
func CleanHouseNo(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		loc := reHouseLabel.FindStringIndex(s)
		if loc == nil {
			return s
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
}

// ScalarString chuyển giá trị scalar về dạng string.
// nil → "", float nguyên (12.0) → "12".
func ScalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeHeader chuẩn hóa tên cột để so khớp không phân biệt hoa thường,
// full-width và dấu ("Ｈ_Ｎｏ", "Từ" → "h_no", "tu")
func NormalizeHeader(h string) string {
	return strings.ToLower(collapseSpaces(FoldASCII(strings.TrimPrefix(h, "\ufeff"))))
}
