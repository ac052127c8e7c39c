package query

// BoundValue is one position of a composite bound tuple. An unbounded
// position places no constraint on that dimension: it compares below
// every value on the lower side and above every value on the upper side.
type BoundValue struct {
	Value     any
	Unbounded bool
}

// KeyRange is the engine-native descriptor for a composite range scan:
// a lower-bound tuple and an upper-bound tuple with independent
// open/closed flags. Tuple positions follow the queried attribute order,
// which the planner guarantees equals the index key order. A tuple of
// length one behaves as a plain scalar bound.
type KeyRange struct {
	Lower     []BoundValue
	Upper     []BoundValue
	LowerOpen bool
	UpperOpen bool
}

// HasLower reports whether any position constrains the range from below.
func (kr KeyRange) HasLower() bool {
	for _, b := range kr.Lower {
		if !b.Unbounded {
			return true
		}
	}
	return false
}

// HasUpper reports whether any position constrains the range from above.
func (kr KeyRange) HasUpper() bool {
	for _, b := range kr.Upper {
		if !b.Unbounded {
			return true
		}
	}
	return false
}

// CompileRange builds the key range for a query, one tuple position per
// term in codec order:
//
//   - scalar term: contributes to both tuples, closed
//   - GreaterThanOrEqual / GreaterThan: lower tuple only; GreaterThan
//     marks the lower bound open (exclusive)
//   - LessThanOrEqual / LessThan: upper tuple only; LessThan marks the
//     upper bound open
//
// Positions a side receives no contribution for are unbounded in that
// dimension, so a lower-only or upper-only query produces a half-open
// range rather than an accidental empty one.
func CompileRange(q Query) KeyRange {
	kr := KeyRange{
		Lower: make([]BoundValue, len(q)),
		Upper: make([]BoundValue, len(q)),
	}
	for i, t := range q {
		if t.Range == nil {
			kr.Lower[i] = BoundValue{Value: t.Value}
			kr.Upper[i] = BoundValue{Value: t.Value}
			continue
		}
		switch {
		case t.Range.GreaterThanOrEqual != nil:
			kr.Lower[i] = BoundValue{Value: t.Range.GreaterThanOrEqual}
		case t.Range.GreaterThan != nil:
			kr.Lower[i] = BoundValue{Value: t.Range.GreaterThan}
			kr.LowerOpen = true
		default:
			kr.Lower[i] = BoundValue{Unbounded: true}
		}
		switch {
		case t.Range.LessThanOrEqual != nil:
			kr.Upper[i] = BoundValue{Value: t.Range.LessThanOrEqual}
		case t.Range.LessThan != nil:
			kr.Upper[i] = BoundValue{Value: t.Range.LessThan}
			kr.UpperOpen = true
		default:
			kr.Upper[i] = BoundValue{Unbounded: true}
		}
	}
	return kr
}

// Contains reports whether a composite key lies inside the range.
// Comparison is lexicographic; an unbounded position decides in the
// key's favor. Open flags exclude exact boundary matches.
func (kr KeyRange) Contains(key []any) bool {
	return !kr.Below(key) && !kr.Above(key)
}

// Below reports whether the key falls short of the lower bound.
// A reverse cursor stops when it sees a key below the range.
func (kr KeyRange) Below(key []any) bool {
	if !kr.HasLower() {
		return false
	}
	c := compareToBound(key, kr.Lower, -1)
	return c < 0 || (c == 0 && kr.LowerOpen)
}

// Above reports whether the key lies beyond the upper bound.
// A forward cursor stops when it sees a key above the range.
func (kr KeyRange) Above(key []any) bool {
	if !kr.HasUpper() {
		return false
	}
	c := compareToBound(key, kr.Upper, 1)
	return c > 0 || (c == 0 && kr.UpperOpen)
}

// compareToBound lexicographically compares key against a bound tuple.
// side is -1 for the lower bound, +1 for the upper: an unbounded position
// compares as -infinity or +infinity respectively.
func compareToBound(key []any, bound []BoundValue, side int) int {
	n := len(key)
	if len(bound) < n {
		n = len(bound)
	}
	for i := 0; i < n; i++ {
		if bound[i].Unbounded {
			// key value is above -inf / below +inf: decided.
			return -side
		}
		if c := Compare(key[i], bound[i].Value); c != 0 {
			return c
		}
	}
	return 0
}

// Direction is the cursor traversal direction for an indexed scan.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// TraversalDirection maps an ordering directive onto cursor direction.
// Ordering on the indexed path is achieved by traversal direction rather
// than a separate sort step, which is only equivalent to a real sort when
// the order attribute leads the index key; the engine adapter checks that
// and re-sorts otherwise.
func TraversalDirection(order *OrderBy) Direction {
	if order != nil && order.Descending {
		return Reverse
	}
	return Forward
}
