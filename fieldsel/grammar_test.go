package fieldsel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbenoit/sift/fieldsel"
)

func testFields() map[string]int16 {
	return map[string]int16{
		"version":    1,
		"schema":     2,
		"num_rows":   3,
		"row_groups": 4,
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
		terms     []fieldsel.Term
	}{
		{
			"single field",
			"schema",
			[]fieldsel.Term{{Name: "schema"}},
		},
		{
			"multiple fields",
			"schema, num_rows",
			[]fieldsel.Term{{Name: "schema"}, {Name: "num_rows"}},
		},
		{
			"negated field",
			"!row_groups",
			[]fieldsel.Term{{Negated: true, Name: "row_groups"}},
		},
		{
			"mixed whitespace",
			"schema ,num_rows",
			[]fieldsel.Term{{Name: "schema"}, {Name: "num_rows"}},
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			sel, err := fieldsel.Parse(c.input)
			require.NoError(t, err)
			require.Equal(t, c.terms, sel.Terms)
		})
	}

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, input := range []string{"", ",", "schema,", "!!x", "a b"} {
			_, err := fieldsel.Parse(input)
			require.Error(t, err, "input %q should not parse", input)
		}
	})
}

func TestOmitted(t *testing.T) {
	t.Run("positive selection omits the rest", func(t *testing.T) {
		sel, err := fieldsel.Parse("schema, num_rows")
		require.NoError(t, err)
		omit, err := sel.Omitted(testFields())
		require.NoError(t, err)
		assert.ElementsMatch(t, []int16{1, 4}, omit)
	})

	t.Run("negated selection omits only the named fields", func(t *testing.T) {
		sel, err := fieldsel.Parse("!row_groups")
		require.NoError(t, err)
		omit, err := sel.Omitted(testFields())
		require.NoError(t, err)
		assert.Equal(t, []int16{4}, omit)
	})

	t.Run("mixing positive and negated terms is rejected", func(t *testing.T) {
		sel, err := fieldsel.Parse("schema, !row_groups")
		require.NoError(t, err)
		_, err = sel.Omitted(testFields())
		require.ErrorContains(t, err, "cannot mix")
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		sel, err := fieldsel.Parse("rowgroups")
		require.NoError(t, err)
		_, err = sel.Omitted(testFields())
		require.ErrorContains(t, err, "unknown field")
	})
}
