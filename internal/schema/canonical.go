package schema

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"
)

// CanonicalValue maps an attribute value to its canonical stored form.
//
// Both engines must collate values identically, so everything is reduced
// to three comparable classes before it reaches either engine:
//
//   - strings: NFC normalized (two visually identical strings with
//     different codepoint sequences compare equal everywhere)
//   - numbers: integers widen to int64, floats to float64
//   - booleans: stored as int64 0/1 (SQLite has no boolean storage class)
//
// nil is preserved and sorts before every other value.
func CanonicalValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return norm.NFC.String(val), nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("unsigned value %d overflows int64", val)
		}
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("unsigned value %d overflows int64", val)
		}
		return int64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported attribute value type %T", v)
	}
}

// CanonicalRecord returns a copy of rec with every value in canonical form.
// The input record is not modified.
func CanonicalRecord(rec Record) (Record, error) {
	out := make(Record, len(rec))
	for k, v := range rec {
		cv, err := CanonicalValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = cv
	}
	return out, nil
}
