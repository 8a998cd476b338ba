package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wbenoit/sift/footer"
)

var depthColors = []*color.Color{ // nolint:gochecknoglobals
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgBlue),
	color.New(color.FgRed),
}

func depthColor(depth int) *color.Color {
	return depthColors[depth%len(depthColors)]
}

// schemaCmd prints the schema tree of a footer. Only the schema field is
// registered; everything else in the footer, row groups included, is skipped
// on the wire.
var schemaCmd = &cobra.Command{
	Use:   "schema [target]",
	Short: "Print the schema tree of a parquet footer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, id := openStore(args[0])
		md := &footer.FileMetaData{}
		checkErr(footer.Fetch(ctx, store, id, footer.NewMetaDataConsumer(md),
			footer.WithOmitFields(
				footer.FieldRowGroups,
				footer.FieldKeyValueMetadata,
			),
		))
		printSchema(md.Schema)
	},
}

// printSchema walks the flattened schema list, using each group node's child
// count to recover the tree shape.
func printSchema(schema []footer.SchemaElement) {
	type frame struct {
		remaining int32
	}
	stack := []frame{}
	for _, el := range schema {
		depth := len(stack)
		label := el.Name
		if el.NumChildren == 0 {
			label = fmt.Sprintf("%s (type=%d, repetition=%d)", el.Name, el.Type, el.RepetitionType)
		}
		fmt.Println(strings.Repeat("  ", depth) + depthColor(depth).Sprint(label))
		if len(stack) > 0 {
			stack[len(stack)-1].remaining--
		}
		if el.NumChildren > 0 {
			stack = append(stack, frame{remaining: el.NumChildren})
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].remaining == 0 {
			stack = stack[:len(stack)-1]
		}
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
