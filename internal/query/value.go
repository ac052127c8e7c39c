package query

import "math"

// Value comparison for canonical values (see schema.CanonicalValue).
// Canonical values fall into three classes: nil, numbers (int64/float64),
// and strings. Classes are ordered nil < number < string, matching
// SQLite's storage-class ordering (NULL < INTEGER/REAL < TEXT) so the
// relational engine's ORDER BY agrees with the in-memory sort.

const (
	classNil = iota
	classNumber
	classString
)

func classOf(v any) int {
	switch v.(type) {
	case nil:
		return classNil
	case int64, float64:
		return classNumber
	default:
		return classString
	}
}

// Compare returns -1, 0, or 1 ordering a before, equal to, or after b.
// Both values must be canonical. Numbers compare numerically across
// int64/float64, strings byte-wise, and classes by class order.
func Compare(a, b any) int {
	ca, cb := classOf(a), classOf(b)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	switch ca {
	case classNil:
		return 0
	case classNumber:
		return compareNumbers(a, b)
	default:
		as, _ := a.(string)
		bs, _ := b.(string)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
}

// Equal reports strict equality under the same semantics as Compare.
// int64(1) equals float64(1.0); SQLite's `=` behaves the same way.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

func compareNumbers(a, b any) int {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	switch {
	case aInt && bInt:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	case aInt:
		return compareIntFloat(ai, b.(float64))
	case bInt:
		return -compareIntFloat(bi, a.(float64))
	}
	af := a.(float64)
	bf := b.(float64)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

// compareIntFloat compares an int64 against a float64 without converting
// the integer to float64: that conversion is lossy above 2^53 and would
// disagree with SQLite's exact INTEGER/REAL comparison. The float's
// integral part is compared in the integer domain instead, with the
// fractional part breaking the tie.
func compareIntFloat(i int64, f float64) int {
	// 2^63 and -2^63 are exactly representable as float64; every int64
	// is strictly below the former and at or above the latter.
	if f >= 9.223372036854775808e18 {
		return -1
	}
	if f < -9.223372036854775808e18 {
		return 1
	}
	tr := math.Trunc(f)
	ti := int64(tr)
	switch {
	case i < ti:
		return -1
	case i > ti:
		return 1
	}
	switch frac := f - tr; {
	case frac > 0:
		return -1
	case frac < 0:
		return 1
	}
	return 0
}

// CompareKeys orders two composite index keys lexicographically.
// A shorter key that is a prefix of a longer one sorts first.
func CompareKeys(a, b []any) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
