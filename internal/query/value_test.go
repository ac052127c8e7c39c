package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare_Numbers(t *testing.T) {
	assert.Equal(t, -1, Compare(int64(1), int64(2)))
	assert.Equal(t, 1, Compare(int64(2), int64(1)))
	assert.Equal(t, 0, Compare(int64(2), int64(2)))
	assert.Equal(t, 0, Compare(int64(1), float64(1.0)), "numeric class compares across int/float")
	assert.Equal(t, -1, Compare(float64(1.5), int64(2)))
}

func TestCompare_Strings(t *testing.T) {
	assert.Equal(t, -1, Compare("a", "b"))
	assert.Equal(t, 0, Compare("a", "a"))
	assert.Equal(t, 1, Compare("b", "a"))
}

func TestCompare_ClassOrder(t *testing.T) {
	// nil < number < string, matching SQLite storage-class ordering.
	assert.Equal(t, -1, Compare(nil, int64(0)))
	assert.Equal(t, -1, Compare(int64(99), "0"))
	assert.Equal(t, 1, Compare("", nil))
	assert.Equal(t, 0, Compare(nil, nil))
}

func TestCompare_LargeIntegerFloatIsExact(t *testing.T) {
	// float64(2^62 + 1) rounds to 2^62; the comparison must not.
	big := int64(1)<<62 + 1
	assert.Equal(t, 1, Compare(big, float64(int64(1)<<62)))
	assert.Equal(t, -1, Compare(float64(int64(1)<<62), big))

	assert.Equal(t, -1, Compare(int64(math.MaxInt64), 9.3e18))
	assert.Equal(t, 1, Compare(9.3e18, int64(math.MaxInt64)))
	assert.Equal(t, 1, Compare(int64(math.MinInt64), -9.3e18))

	assert.Equal(t, 0, Compare(int64(1)<<53, float64(int64(1)<<53)))
	assert.Equal(t, -1, Compare(int64(5), 5.5))
	assert.Equal(t, 1, Compare(int64(-3), -3.5))
}

func TestEqual_StrictWithinClass(t *testing.T) {
	assert.True(t, Equal(int64(1), float64(1)))
	assert.False(t, Equal(int64(1), "1"), "no cross-class coercion")
	assert.True(t, Equal("x", "x"))
}

func TestCompareKeys(t *testing.T) {
	assert.Equal(t, 0, CompareKeys([]any{int64(1), "a"}, []any{int64(1), "a"}))
	assert.Equal(t, -1, CompareKeys([]any{int64(1), "a"}, []any{int64(1), "b"}))
	assert.Equal(t, 1, CompareKeys([]any{int64(2)}, []any{int64(1), "z"}))
	assert.Equal(t, -1, CompareKeys([]any{int64(1)}, []any{int64(1), "a"}), "prefix sorts first")
}
