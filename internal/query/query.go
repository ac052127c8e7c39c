package query

import (
	"fmt"

	"github.com/roach88/dualstore/internal/schema"
)

// Range restricts one attribute to an interval. Fields left nil are unset.
// A range must not carry both exclusive and inclusive variants of the same
// side; Query.Validate rejects that shape.
type Range struct {
	GreaterThan        any
	GreaterThanOrEqual any
	LessThan           any
	LessThanOrEqual    any
}

// HasLower reports whether the range bounds the attribute from below.
func (r Range) HasLower() bool {
	return r.GreaterThan != nil || r.GreaterThanOrEqual != nil
}

// HasUpper reports whether the range bounds the attribute from above.
func (r Range) HasUpper() bool {
	return r.LessThan != nil || r.LessThanOrEqual != nil
}

func (r Range) validate(attr string) error {
	if r.GreaterThan != nil && r.GreaterThanOrEqual != nil {
		return fmt.Errorf("attribute %q: greaterThan and greaterThanOrEqual are mutually exclusive", attr)
	}
	if r.LessThan != nil && r.LessThanOrEqual != nil {
		return fmt.Errorf("attribute %q: lessThan and lessThanOrEqual are mutually exclusive", attr)
	}
	if !r.HasLower() && !r.HasUpper() {
		return fmt.Errorf("attribute %q: empty range", attr)
	}
	return nil
}

// Term is one attribute constraint: scalar equality when Range is nil,
// otherwise the range operators in Range.
type Term struct {
	Attr  string
	Value any
	Range *Range
}

// Eq builds a scalar equality term.
func Eq(attr string, value any) Term {
	return Term{Attr: attr, Value: value}
}

// Within builds a range term.
func Within(attr string, r Range) Term {
	return Term{Attr: attr, Range: &r}
}

// Query is an ordered list of attribute terms, combined with AND.
//
// Term order is significant: it is the order the codec reports attributes
// in, and compound-index matching compares against it. A nil or empty
// query selects every record.
type Query []Term

// IsEmpty reports whether the query selects all records.
func (q Query) IsEmpty() bool {
	return len(q) == 0
}

// Validate checks the structural invariants of the query: no attribute
// appears twice, no range mixes exclusive and inclusive variants of the
// same side, and no equality term carries a nil value. Nil cannot be
// constrained against: SQL's NULL never compares equal to anything, so a
// nil-equality term could not mean the same thing on both engines.
func (q Query) Validate() error {
	seen := make(map[string]bool, len(q))
	for _, t := range q {
		if t.Attr == "" {
			return fmt.Errorf("term with empty attribute name")
		}
		if seen[t.Attr] {
			return fmt.Errorf("attribute %q appears twice", t.Attr)
		}
		seen[t.Attr] = true
		if t.Range == nil && t.Value == nil {
			return fmt.Errorf("attribute %q: equality against nil is not supported", t.Attr)
		}
		if t.Range != nil {
			if err := t.Range.validate(t.Attr); err != nil {
				return err
			}
		}
	}
	return nil
}

// Canonical returns a copy of the query with every value in canonical
// stored form, so comparisons against stored records are exact.
func (q Query) Canonical() (Query, error) {
	if q.IsEmpty() {
		return q, nil
	}
	out := make(Query, 0, len(q))
	for _, t := range q {
		ct := Term{Attr: t.Attr}
		if t.Range == nil {
			v, err := schema.CanonicalValue(t.Value)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", t.Attr, err)
			}
			ct.Value = v
			out = append(out, ct)
			continue
		}
		cr := Range{}
		var err error
		if t.Range.GreaterThan != nil {
			if cr.GreaterThan, err = schema.CanonicalValue(t.Range.GreaterThan); err != nil {
				return nil, fmt.Errorf("attribute %q: %w", t.Attr, err)
			}
		}
		if t.Range.GreaterThanOrEqual != nil {
			if cr.GreaterThanOrEqual, err = schema.CanonicalValue(t.Range.GreaterThanOrEqual); err != nil {
				return nil, fmt.Errorf("attribute %q: %w", t.Attr, err)
			}
		}
		if t.Range.LessThan != nil {
			if cr.LessThan, err = schema.CanonicalValue(t.Range.LessThan); err != nil {
				return nil, fmt.Errorf("attribute %q: %w", t.Attr, err)
			}
		}
		if t.Range.LessThanOrEqual != nil {
			if cr.LessThanOrEqual, err = schema.CanonicalValue(t.Range.LessThanOrEqual); err != nil {
				return nil, fmt.Errorf("attribute %q: %w", t.Attr, err)
			}
		}
		ct.Range = &cr
		out = append(out, ct)
	}
	return out, nil
}

// OrderBy requests ordering by a single attribute. Only one sort attribute
// is supported per query.
type OrderBy struct {
	Attr       string
	Descending bool
}

// OrderAsc builds an ascending ordering directive.
func OrderAsc(attr string) *OrderBy {
	return &OrderBy{Attr: attr}
}

// OrderDesc builds a descending ordering directive.
func OrderDesc(attr string) *OrderBy {
	return &OrderBy{Attr: attr, Descending: true}
}
