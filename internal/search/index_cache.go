package search

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ps-assigner/app/models"
)

// IndexCache giữ các RangeIndex đã build, key là fingerprint của bảng range.
// Một bảng Main_assign thường được dùng lại cho nhiều file Ref_House.
type IndexCache struct {
	cache  *lru.Cache[uint64, *RangeIndex]
	hits   atomic.Int64
	misses atomic.Int64
}

// IndexCacheStats thống kê cache
type IndexCacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewIndexCache tạo cache LRU với size phần tử
func NewIndexCache(size int) (*IndexCache, error) {
	cache, err := lru.New[uint64, *RangeIndex](size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo index cache: %w", err)
	}
	return &IndexCache{cache: cache}, nil
}

// Fingerprint hash nội dung bảng range cùng với policy
func Fingerprint(rows []models.RangeRecord, policy OverlapPolicy) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(policy))
	for _, r := range rows {
		_, _ = d.WriteString("\x1e")
		_, _ = d.WriteString(strconv.Itoa(r.Row))
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(r.RawFrom)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(r.RawTo)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(intField(r.PSCode))
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(intField(r.SectionCode))
	}
	return d.Sum64()
}

// GetOrBuild trả về index từ cache, build mới nếu chưa có.
// Giá trị bool cho biết có hit cache hay không.
func (c *IndexCache) GetOrBuild(rows []models.RangeRecord, policy OverlapPolicy) (*RangeIndex, bool, error) {
	fp := Fingerprint(rows, policy)
	if idx, ok := c.cache.Get(fp); ok {
		c.hits.Add(1)
		return idx, true, nil
	}
	c.misses.Add(1)

	idx, err := BuildRangeIndex(rows, policy)
	if err != nil {
		return nil, false, err
	}
	c.cache.Add(fp, idx)
	return idx, false, nil
}

// Stats lấy thống kê cache
func (c *IndexCache) Stats() IndexCacheStats {
	return IndexCacheStats{
		Size:   c.cache.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Purge xóa toàn bộ cache
func (c *IndexCache) Purge() {
	c.cache.Purge()
}

func intField(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
