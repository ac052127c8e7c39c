package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dualstore/internal/schema"
)

func noteIndexes(t *testing.T) []schema.Index {
	t.Helper()
	cat, err := schema.NewCatalog(schema.ModelSpec{
		Model:   schema.Model{Name: "note", Attributes: []string{"id", "a", "b"}},
		Indexes: []schema.Index{{Attributes: []string{"a"}}, {Attributes: []string{"a", "b"}}},
	})
	require.NoError(t, err)
	return cat.Indexes("note")
}

func TestPlanIndexed_EmptyQueryScansAll(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), nil)
	assert.Equal(t, PathScan, p.Path)
}

func TestPlanIndexed_IdentifierEqualityIsGet(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), Query{Eq("id", "n1")})
	assert.Equal(t, PathGet, p.Path)
}

func TestPlanIndexed_IdentifierRangeUsesImplicitIndex(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), Query{Within("id", Range{GreaterThanOrEqual: "n1"})})
	assert.Equal(t, PathIndexed, p.Path)
	assert.Equal(t, []string{"id"}, p.Index.Attributes)
}

func TestPlanIndexed_SingleAttributeMatch(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), Query{Eq("a", 1)})
	assert.Equal(t, PathIndexed, p.Path)
	assert.Equal(t, []string{"a"}, p.Index.Attributes)
}

func TestPlanIndexed_CompoundExactMatch(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), Query{Eq("a", 1), Eq("b", 2)})
	assert.Equal(t, PathIndexed, p.Path)
	assert.Equal(t, []string{"a", "b"}, p.Index.Attributes)
}

func TestPlanIndexed_CompoundReversedOrderFallsBack(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), Query{Eq("b", 2), Eq("a", 1)})
	assert.Equal(t, PathScan, p.Path, "term order must equal index key order")
}

func TestPlanIndexed_UndeclaredAttributeFallsBack(t *testing.T) {
	p := PlanIndexed(noteIndexes(t), Query{Eq("b", 2)})
	assert.Equal(t, PathScan, p.Path)
}

// TestPlan_BalancedBoundsRule pins the composite-range eligibility
// contract: the count of attributes with a lower bound must equal the
// count with an upper bound, or one of the counts must be zero. The rule
// is enforced as documented here; unbalanced shapes degrade to SCAN
// silently rather than erroring.
func TestPlan_BalancedBoundsRule(t *testing.T) {
	indexes := noteIndexes(t)

	balanced := Query{
		Within("a", Range{GreaterThanOrEqual: 10, LessThanOrEqual: 15}),
		Within("b", Range{GreaterThanOrEqual: 1, LessThanOrEqual: 10}),
	}
	p := PlanIndexed(indexes, balanced)
	assert.Equal(t, PathIndexed, p.Path, "2 lower + 2 upper is balanced")

	unbalanced := Query{
		Within("a", Range{LessThanOrEqual: 15}),
		Within("b", Range{GreaterThanOrEqual: 1, LessThanOrEqual: 10}),
	}
	p = PlanIndexed(indexes, unbalanced)
	assert.Equal(t, PathScan, p.Path, "1 lower + 2 upper cannot be one composite range")
}

func TestBalancedBounds(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"single attribute always valid", Query{Within("a", Range{LessThan: 1})}, true},
		{"all equality", Query{Eq("a", 1), Eq("b", 2)}, true},
		{"lower only", Query{Within("a", Range{GreaterThan: 1}), Within("b", Range{GreaterThanOrEqual: 2})}, true},
		{"upper only", Query{Within("a", Range{LessThan: 1}), Within("b", Range{LessThanOrEqual: 2})}, true},
		{"equal counts", Query{
			Within("a", Range{GreaterThan: 1, LessThan: 5}),
			Within("b", Range{GreaterThanOrEqual: 2, LessThanOrEqual: 6}),
		}, true},
		{"mixed with scalar", Query{Eq("a", 1), Within("b", Range{GreaterThan: 2})}, true},
		{"asymmetric", Query{
			Within("a", Range{LessThan: 5}),
			Within("b", Range{GreaterThan: 2, LessThan: 6}),
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BalancedBounds(tt.q))
		})
	}
}

func TestPlanRelational_AlwaysRelational(t *testing.T) {
	assert.Equal(t, PathRelational, PlanRelational(nil).Path)
	assert.Equal(t, PathRelational, PlanRelational(Query{Eq("a", 1)}).Path)

	// Index declarations are irrelevant to the relational engine: even a
	// shape the index engine must scan for compiles to plain SQL.
	unbalanced := Query{
		Within("a", Range{LessThanOrEqual: 15}),
		Within("b", Range{GreaterThanOrEqual: 1, LessThanOrEqual: 10}),
	}
	assert.Equal(t, PathRelational, PlanRelational(unbalanced).Path)
}
