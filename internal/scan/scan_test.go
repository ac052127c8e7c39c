package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

func rec(id string, stars int64, title string) schema.Record {
	return schema.Record{"id": id, "stars": stars, "title": title}
}

func TestMatches_Equality(t *testing.T) {
	r := rec("n1", 3, "alpha")

	assert.True(t, Matches(r, query.Query{query.Eq("title", "alpha")}))
	assert.False(t, Matches(r, query.Query{query.Eq("title", "beta")}))
	assert.False(t, Matches(r, query.Query{query.Eq("missing", "x")}), "absent attribute never matches")
}

func TestMatches_NoCrossClassCoercion(t *testing.T) {
	r := schema.Record{"id": "n1", "stars": int64(3)}
	assert.False(t, Matches(r, query.Query{query.Eq("stars", "3")}))
}

func TestMatches_NilValueMatchesNoOperator(t *testing.T) {
	r := schema.Record{"id": "n1", "stars": nil}

	assert.False(t, Matches(r, query.Query{query.Eq("stars", nil)}))
	assert.False(t, Matches(r, query.Query{query.Within("stars", query.Range{LessThan: int64(5)})}))
	assert.False(t, Matches(r, query.Query{query.Within("stars", query.Range{GreaterThanOrEqual: int64(0)})}))
}

func TestMatches_RangeOperators(t *testing.T) {
	r := rec("n1", 5, "alpha")

	tests := []struct {
		name string
		rng  query.Range
		want bool
	}{
		{"gt excludes boundary", query.Range{GreaterThan: int64(5)}, false},
		{"gte includes boundary", query.Range{GreaterThanOrEqual: int64(5)}, true},
		{"lt excludes boundary", query.Range{LessThan: int64(5)}, false},
		{"lte includes boundary", query.Range{LessThanOrEqual: int64(5)}, true},
		{"inside interval", query.Range{GreaterThan: int64(1), LessThan: int64(9)}, true},
		{"below interval", query.Range{GreaterThan: int64(6)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(r, query.Query{query.Within("stars", tt.rng)}))
		})
	}
}

func TestMatches_AllTermsMustHold(t *testing.T) {
	r := rec("n1", 5, "alpha")
	q := query.Query{
		query.Eq("title", "alpha"),
		query.Within("stars", query.Range{GreaterThan: int64(5)}),
	}
	assert.False(t, Matches(r, q))
}

func TestReduce_EmptyQuerySelectsAll(t *testing.T) {
	records := []schema.Record{rec("a", 1, "x"), rec("b", 2, "y")}
	got := Reduce(records, nil, nil)
	assert.Len(t, got, 2)
}

func TestReduce_NoMatchReturnsEmptyNotNil(t *testing.T) {
	records := []schema.Record{rec("a", 1, "x")}
	got := Reduce(records, query.Query{query.Eq("title", "zzz")}, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReduce_SortAscendingAndDescending(t *testing.T) {
	records := []schema.Record{rec("a", 3, "x"), rec("b", 1, "y"), rec("c", 2, "z")}

	asc := Reduce(records, nil, query.OrderAsc("stars"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(asc))

	desc := Reduce(records, nil, query.OrderDesc("stars"))
	assert.Equal(t, []string{"a", "c", "b"}, ids(desc))
}

func TestReduce_StableForEqualSortKeys(t *testing.T) {
	// Equal sort keys keep their relative input (insertion) order.
	records := []schema.Record{
		rec("first", 1, "x"),
		rec("second", 1, "x"),
		rec("third", 0, "x"),
		rec("fourth", 1, "x"),
	}
	got := Reduce(records, nil, query.OrderAsc("stars"))
	assert.Equal(t, []string{"third", "first", "second", "fourth"}, ids(got))
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	records := []schema.Record{rec("a", 2, "x"), rec("b", 1, "y")}
	Reduce(records, nil, query.OrderAsc("stars"))
	assert.Equal(t, "a", records[0].ID())
}

func ids(records []schema.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}
