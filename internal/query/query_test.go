package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Attributes_PreservesTermOrder(t *testing.T) {
	q := Query{
		Eq("b", 1),
		Within("a", Range{GreaterThan: 5}),
		Eq("c", "x"),
	}
	assert.Equal(t, []string{"b", "a", "c"}, q.Attributes())
}

func TestQuery_Values_ParallelToAttributes(t *testing.T) {
	r := Range{LessThan: 9}
	q := Query{Eq("a", 1), Within("b", r)}

	vals := q.Values()
	require.Len(t, vals, 2)
	assert.Equal(t, 1, vals[0])
	rng, ok := vals[1].(*Range)
	require.True(t, ok)
	assert.Equal(t, 9, rng.LessThan)
}

func TestQuery_Empty_SignalsSelectAll(t *testing.T) {
	var q Query
	assert.True(t, q.IsEmpty())
	assert.Empty(t, q.Attributes())
	assert.Empty(t, q.Values())
}

func TestQuery_Validate_RejectsDuplicateAttribute(t *testing.T) {
	q := Query{Eq("a", 1), Eq("a", 2)}
	require.Error(t, q.Validate())
}

func TestQuery_Validate_RejectsNilEqualityValue(t *testing.T) {
	q := Query{Eq("a", nil)}
	require.Error(t, q.Validate())
}

func TestQuery_Validate_RejectsMixedLowerVariants(t *testing.T) {
	q := Query{Within("a", Range{GreaterThan: 1, GreaterThanOrEqual: 1})}
	require.Error(t, q.Validate())
}

func TestQuery_Validate_RejectsMixedUpperVariants(t *testing.T) {
	q := Query{Within("a", Range{LessThan: 9, LessThanOrEqual: 9})}
	require.Error(t, q.Validate())
}

func TestQuery_Validate_RejectsEmptyRange(t *testing.T) {
	q := Query{Within("a", Range{})}
	require.Error(t, q.Validate())
}

func TestQuery_Validate_AcceptsBothSides(t *testing.T) {
	q := Query{Within("a", Range{GreaterThanOrEqual: 1, LessThan: 9})}
	require.NoError(t, q.Validate())
}

func TestQuery_Canonical_WidensValues(t *testing.T) {
	q := Query{
		Eq("n", 7),
		Eq("flag", true),
		Within("r", Range{GreaterThan: float32(1.5), LessThanOrEqual: 10}),
	}
	cq, err := q.Canonical()
	require.NoError(t, err)

	assert.Equal(t, int64(7), cq[0].Value)
	assert.Equal(t, int64(1), cq[1].Value)
	assert.Equal(t, float64(1.5), cq[2].Range.GreaterThan)
	assert.Equal(t, int64(10), cq[2].Range.LessThanOrEqual)
}

func TestQuery_Canonical_RejectsCompositeValue(t *testing.T) {
	q := Query{Eq("a", []int{1, 2})}
	_, err := q.Canonical()
	require.Error(t, err)
}
