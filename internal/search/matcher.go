package search

import "github.com/ps-assigner/app/models"

// Matcher tìm range chứa một sort key
type Matcher interface {
	Lookup(key string) (models.RangeRecord, bool)
}

var (
	_ Matcher = (*RangeIndex)(nil)
	_ Matcher = (*ScanMatcher)(nil)
)

// ScanMatcher duyệt tuần tự toàn bộ range, O(m) mỗi lookup.
// Dùng làm tham chiếu để đối chiếu kết quả với RangeIndex.
type ScanMatcher struct {
	ranges []models.RangeRecord
}

// NewScanMatcher tạo ScanMatcher trên cùng tập range của index
func NewScanMatcher(idx *RangeIndex) *ScanMatcher {
	return &ScanMatcher{ranges: idx.ranges}
}

// Lookup trả về range đầu tiên (theo thứ tự StartKey) chứa key.
// Với bảng range không chồng lấn, kết quả trùng với RangeIndex.Lookup.
func (m *ScanMatcher) Lookup(key string) (models.RangeRecord, bool) {
	for _, r := range m.ranges {
		if r.Contains(key) {
			return r, true
		}
	}
	return models.RangeRecord{}, false
}

// Codes trả về cặp (ps, sec) của range chứa key, nil nếu không match
func Codes(m Matcher, key string) (ps, sec *int, ok bool) {
	r, ok := m.Lookup(key)
	if !ok {
		return nil, nil, false
	}
	return cloneInt(r.PSCode), cloneInt(r.SectionCode), true
}
