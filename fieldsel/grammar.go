package fieldsel

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
This file contains a participle grammar for field selection expressions. A
selection is a comma-separated list of footer field names, each optionally
negated with a bang: "schema, num_rows" keeps only the named fields, while
"!row_groups" keeps everything except the named ones. The CLI compiles a
selection into the set of field ids to omit from the decode registry.
*/

////////////////////////////////////////////////////////////////////////////////

var (
	Options = []participle.Option{ // nolint:gochecknoglobals
		participle.Lexer(
			lexer.MustSimple([]lexer.SimpleRule{
				{Name: "Word", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
				{Name: "whitespace", Pattern: `\s+`},
				{Name: "Operators", Pattern: `,|!`},
			}),
		),
	}

	parser = participle.MustBuild[Selection](Options...) // nolint:gochecknoglobals
)

// Selection is a parsed field selection expression.
type Selection struct {
	Terms []Term `parser:"@@ (\",\" @@)*"`
}

// Term is one field name, optionally negated.
type Term struct {
	Negated bool   `parser:"@\"!\"?"`
	Name    string `parser:"@Word"`
}

// Parse parses a selection expression.
func Parse(input string) (*Selection, error) {
	sel, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse selection: %w", err)
	}
	return sel, nil
}

// Omitted resolves the selection against the known field names and returns
// the ids that should be omitted from decoding. Positive terms keep only the
// named fields; negated terms drop the named fields from an otherwise full
// registry. Mixing both forms is rejected, as is an unknown field name.
func (s *Selection) Omitted(known map[string]int16) ([]int16, error) {
	var positive, negative []int16
	for _, term := range s.Terms {
		id, ok := known[term.Name]
		if !ok {
			return nil, fmt.Errorf("unknown field %q", term.Name)
		}
		if term.Negated {
			negative = append(negative, id)
		} else {
			positive = append(positive, id)
		}
	}
	if len(positive) > 0 && len(negative) > 0 {
		return nil, fmt.Errorf("cannot mix positive and negated terms")
	}
	if len(negative) > 0 {
		return negative, nil
	}
	keep := make(map[int16]bool, len(positive))
	for _, id := range positive {
		keep[id] = true
	}
	omit := []int16{}
	for _, id := range known {
		if !keep[id] {
			omit = append(omit, id)
		}
	}
	return omit, nil
}
