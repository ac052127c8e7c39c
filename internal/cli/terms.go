package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/dualstore/internal/query"
)

// termOperators in match order: two-character operators first so ">="
// is not read as ">" followed by "=value".
var termOperators = []string{">=", "<=", ">", "<", "="}

// ParseTerms converts command line arguments like "stars>=3" or
// "title=alpha" into a query. Multiple operators on the same attribute
// are folded into one range term, so "stars>=1 stars<5" expresses an
// interval.
func ParseTerms(args []string) (query.Query, error) {
	byAttr := make(map[string]*query.Term)
	order := []string{}

	for _, arg := range args {
		attr, op, value, err := splitTerm(arg)
		if err != nil {
			return nil, err
		}

		t, ok := byAttr[attr]
		if !ok {
			t = &query.Term{Attr: attr}
			byAttr[attr] = t
			order = append(order, attr)
		}

		if op == "=" {
			if t.Value != nil || t.Range != nil {
				return nil, fmt.Errorf("term %q: attribute %q already constrained", arg, attr)
			}
			t.Value = value
			continue
		}

		if t.Value != nil {
			return nil, fmt.Errorf("term %q: attribute %q already constrained by equality", arg, attr)
		}
		if t.Range == nil {
			t.Range = &query.Range{}
		}
		if err := setRangeOp(t.Range, op, value); err != nil {
			return nil, fmt.Errorf("term %q: %w", arg, err)
		}
	}

	q := make(query.Query, 0, len(order))
	for _, attr := range order {
		q = append(q, *byAttr[attr])
	}
	if len(q) == 0 {
		return nil, nil
	}
	return q, nil
}

func splitTerm(arg string) (attr, op string, value any, err error) {
	for _, candidate := range termOperators {
		idx := strings.Index(arg, candidate)
		if idx <= 0 {
			continue
		}
		attr = arg[:idx]
		raw := arg[idx+len(candidate):]
		if raw == "" {
			return "", "", nil, fmt.Errorf("term %q: missing value", arg)
		}
		return attr, candidate, parseValue(raw), nil
	}
	return "", "", nil, fmt.Errorf("term %q: expected attr=value, attr>value, attr>=value, attr<value, or attr<=value", arg)
}

func setRangeOp(r *query.Range, op string, value any) error {
	switch op {
	case ">":
		if r.GreaterThan != nil || r.GreaterThanOrEqual != nil {
			return fmt.Errorf("lower bound already set")
		}
		r.GreaterThan = value
	case ">=":
		if r.GreaterThan != nil || r.GreaterThanOrEqual != nil {
			return fmt.Errorf("lower bound already set")
		}
		r.GreaterThanOrEqual = value
	case "<":
		if r.LessThan != nil || r.LessThanOrEqual != nil {
			return fmt.Errorf("upper bound already set")
		}
		r.LessThan = value
	case "<=":
		if r.LessThan != nil || r.LessThanOrEqual != nil {
			return fmt.Errorf("upper bound already set")
		}
		r.LessThanOrEqual = value
	default:
		return fmt.Errorf("unknown operator %q", op)
	}
	return nil
}

// parseValue interprets a term value: integer, float, and bool literals
// become typed values, everything else stays a string. Quote-wrapping
// forces a string ("42" stays textual).
func parseValue(raw string) any {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
