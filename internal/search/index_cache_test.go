package search

import (
	"testing"

	"github.com/ps-assigner/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCache_GetOrBuild(t *testing.T) {
	cache, err := NewIndexCache(4)
	require.NoError(t, err)

	first, hit, err := cache.GetOrBuild(twoSections(), PolicyFirstMatch)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cache.GetOrBuild(twoSections(), PolicyFirstMatch)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, first, second)

	_, hit, err = cache.GetOrBuild(twoSections(), PolicyRejectOverlap)
	require.NoError(t, err)
	assert.False(t, hit)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)

	cache.Purge()
	assert.Equal(t, 0, cache.Stats().Size)
}

func TestIndexCache_BuildErrorNotCached(t *testing.T) {
	cache, err := NewIndexCache(4)
	require.NoError(t, err)

	rows := []models.RangeRecord{
		{Row: 1, RawFrom: "1", RawTo: "50"},
		{Row: 2, RawFrom: "20", RawTo: "30"},
	}
	_, _, err = cache.GetOrBuild(rows, PolicyRejectOverlap)
	assert.ErrorIs(t, err, ErrOverlappingRanges)
	assert.Equal(t, 0, cache.Stats().Size)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(twoSections(), PolicyFirstMatch)
	assert.Equal(t, a, Fingerprint(twoSections(), PolicyFirstMatch))

	changed := twoSections()
	*changed[1].SectionCode = 3
	assert.NotEqual(t, a, Fingerprint(changed, PolicyFirstMatch))

	noCode := twoSections()
	noCode[0].PSCode = nil
	assert.NotEqual(t, a, Fingerprint(noCode, PolicyFirstMatch))
}

func TestNewIndexCache_InvalidSize(t *testing.T) {
	_, err := NewIndexCache(0)
	assert.Error(t, err)
}
