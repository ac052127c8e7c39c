package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dualstore/internal/query"
)

func TestParseTerms_Equality(t *testing.T) {
	q, err := ParseTerms([]string{"title=alpha"})
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, query.Eq("title", "alpha"), q[0])
}

func TestParseTerms_TypedValues(t *testing.T) {
	q, err := ParseTerms([]string{"stars=3", "score=1.5", "done=true", "label=plain"})
	require.NoError(t, err)
	require.Len(t, q, 4)
	assert.Equal(t, int64(3), q[0].Value)
	assert.Equal(t, 1.5, q[1].Value)
	assert.Equal(t, true, q[2].Value)
	assert.Equal(t, "plain", q[3].Value)
}

func TestParseTerms_QuotedValueStaysString(t *testing.T) {
	q, err := ParseTerms([]string{`stars="42"`})
	require.NoError(t, err)
	assert.Equal(t, "42", q[0].Value)
}

func TestParseTerms_RangeOperators(t *testing.T) {
	q, err := ParseTerms([]string{"stars>=1", "stars<5"})
	require.NoError(t, err)
	require.Len(t, q, 1, "both operators fold into one term")
	require.NotNil(t, q[0].Range)
	assert.Equal(t, int64(1), q[0].Range.GreaterThanOrEqual)
	assert.Equal(t, int64(5), q[0].Range.LessThan)
	assert.Nil(t, q[0].Range.GreaterThan)
	assert.Nil(t, q[0].Range.LessThanOrEqual)
}

func TestParseTerms_PreservesAttributeOrder(t *testing.T) {
	q, err := ParseTerms([]string{"stars>=1", "created<10", "stars<=5"})
	require.NoError(t, err)
	require.Len(t, q, 2)
	assert.Equal(t, "stars", q[0].Attr)
	assert.Equal(t, "created", q[1].Attr)
}

func TestParseTerms_Empty(t *testing.T) {
	q, err := ParseTerms(nil)
	require.NoError(t, err)
	assert.True(t, q.IsEmpty())
}

func TestParseTerms_Invalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "no operator", args: []string{"title"}},
		{name: "missing value", args: []string{"title="}},
		{name: "missing attribute", args: []string{"=alpha"}},
		{name: "equality then range", args: []string{"stars=3", "stars<5"}},
		{name: "range then equality", args: []string{"stars<5", "stars=3"}},
		{name: "double equality", args: []string{"stars=3", "stars=4"}},
		{name: "double lower bound", args: []string{"stars>1", "stars>=2"}},
		{name: "double upper bound", args: []string{"stars<5", "stars<=4"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTerms(tc.args)
			require.Error(t, err)
		})
	}
}
