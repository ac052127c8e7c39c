package query

// Attributes returns the queried attribute names in term order.
// The order is deterministic and is what compound-index matching uses.
// An empty query yields an empty list, signaling select-all.
func (q Query) Attributes() []string {
	attrs := make([]string, len(q))
	for i, t := range q {
		attrs[i] = t.Attr
	}
	return attrs
}

// Values returns the constraint values parallel to Attributes: the scalar
// for equality terms, the *Range descriptor for range terms.
func (q Query) Values() []any {
	vals := make([]any, len(q))
	for i, t := range q {
		if t.Range != nil {
			vals[i] = t.Range
		} else {
			vals[i] = t.Value
		}
	}
	return vals
}

// Term returns the term for attr, if present.
func (q Query) Term(attr string) (Term, bool) {
	for _, t := range q {
		if t.Attr == attr {
			return t, true
		}
	}
	return Term{}, false
}
