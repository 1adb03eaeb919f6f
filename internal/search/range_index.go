package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/internal/encoder"
)

// OverlapPolicy quyết định cách xử lý các range chồng lấn khi build index
type OverlapPolicy string

const (
	// PolicyFirstMatch không kiểm tra chồng lấn; lookup trả về range có
	// start lớn nhất mà vẫn <= key.
	PolicyFirstMatch OverlapPolicy = "first-match"
	// PolicyRejectOverlap từ chối build khi có hai range chồng lấn.
	PolicyRejectOverlap OverlapPolicy = "reject-on-overlap"
)

// ParseOverlapPolicy parse policy từ config, "" → first-match
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFirstMatch:
		return PolicyFirstMatch, nil
	case PolicyRejectOverlap:
		return PolicyRejectOverlap, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidPolicy, s)
}

// ErrInvalidPolicy policy không hợp lệ
var ErrInvalidPolicy = errors.New("search: unknown overlap policy")

// ErrOverlappingRanges trả về khi policy là reject-on-overlap và có chồng lấn
var ErrOverlappingRanges = errors.New("search: overlapping ranges")

// OverlapError chứa hai range chồng lấn đầu tiên tìm thấy
type OverlapError struct {
	First  models.RangeRecord
	Second models.RangeRecord
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("search: range at row %d (%s..%s) overlaps range at row %d (%s..%s)",
		e.Second.Row, e.Second.RawFrom, e.Second.RawTo,
		e.First.Row, e.First.RawFrom, e.First.RawTo)
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingRanges }

// BoundaryError lỗi mã hóa một đầu của range
type BoundaryError struct {
	Row   int
	Field string // "from" hoặc "to"
	Err   error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("search: range row %d, column %s: %v", e.Row, e.Field, e.Err)
}

func (e *BoundaryError) Unwrap() error { return e.Err }

// RangeIndex bảng range đã sắp xếp tăng dần theo StartKey.
// Không thay đổi sau khi build, an toàn khi đọc đồng thời.
type RangeIndex struct {
	ranges []models.RangeRecord
	starts []string
	policy OverlapPolicy
}

// BuildRangeIndex mã hóa hai đầu của từng range, lấy StartKey = min và
// EndKey = max của hai sort key, rồi stable sort theo StartKey.
func BuildRangeIndex(rows []models.RangeRecord, policy OverlapPolicy) (*RangeIndex, error) {
	ranges := make([]models.RangeRecord, len(rows))
	for i, r := range rows {
		encFrom, keyFrom, err := encoder.EncodeBoundary(r.RawFrom)
		if err != nil {
			return nil, &BoundaryError{Row: r.Row, Field: "from", Err: err}
		}
		encTo, keyTo, err := encoder.EncodeBoundary(r.RawTo)
		if err != nil {
			return nil, &BoundaryError{Row: r.Row, Field: "to", Err: err}
		}

		r.EncodedFrom, r.EncodedTo = encFrom, encTo
		r.StartKey, r.EndKey = min(keyFrom, keyTo), max(keyFrom, keyTo)
		r.PSCode = cloneInt(r.PSCode)
		r.SectionCode = cloneInt(r.SectionCode)
		ranges[i] = r
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].StartKey < ranges[j].StartKey
	})

	if policy == PolicyRejectOverlap {
		if err := checkOverlaps(ranges); err != nil {
			return nil, err
		}
	}

	starts := make([]string, len(ranges))
	for i := range ranges {
		starts[i] = ranges[i].StartKey
	}

	return &RangeIndex{ranges: ranges, starts: starts, policy: policy}, nil
}

// checkOverlaps yêu cầu ranges đã được sort theo StartKey
func checkOverlaps(ranges []models.RangeRecord) error {
	furthest := -1
	for i := range ranges {
		if furthest >= 0 && ranges[i].StartKey <= ranges[furthest].EndKey {
			return &OverlapError{First: ranges[furthest], Second: ranges[i]}
		}
		if furthest < 0 || ranges[i].EndKey > ranges[furthest].EndKey {
			furthest = i
		}
	}
	return nil
}

// Lookup tìm range cuối cùng có StartKey <= key (binary search), rồi kiểm
// tra key <= EndKey. O(log m).
func (idx *RangeIndex) Lookup(key string) (models.RangeRecord, bool) {
	i := sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > key
	}) - 1
	if i < 0 {
		return models.RangeRecord{}, false
	}
	if key <= idx.ranges[i].EndKey {
		return idx.ranges[i], true
	}
	return models.RangeRecord{}, false
}

// Len số range trong index
func (idx *RangeIndex) Len() int { return len(idx.ranges) }

// Policy policy đã dùng khi build
func (idx *RangeIndex) Policy() OverlapPolicy { return idx.policy }

// Ranges trả về bản copy các range theo thứ tự đã sort
func (idx *RangeIndex) Ranges() []models.RangeRecord {
	out := make([]models.RangeRecord, len(idx.ranges))
	copy(out, idx.ranges)
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
