package cmd

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wbenoit/sift/fieldsel"
	"github.com/wbenoit/sift/footer"
)

var (
	inspectSkipRowGroups bool
	inspectFields        string
)

// inspectCmd decodes a footer and prints it as JSON. Row groups dominate
// footer size on wide files, so --skip-row-groups is the difference between
// printing a screenful and printing megabytes.
var inspectCmd = &cobra.Command{
	Use:   "inspect [target]",
	Short: "Decode a parquet footer and print it as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		opts := []footer.Option{}
		if inspectSkipRowGroups {
			opts = append(opts, footer.WithSkipRowGroups())
		}
		if inspectFields != "" {
			sel, err := fieldsel.Parse(inspectFields)
			checkErr(err)
			omit, err := sel.Omitted(footer.FieldIDs())
			checkErr(err)
			opts = append(opts, footer.WithOmitFields(omit...))
		}
		store, id := openStore(args[0])
		md := &footer.FileMetaData{}
		checkErr(footer.Fetch(ctx, store, id, footer.NewMetaDataConsumer(md), opts...))
		buf, err := json.MarshalIndent(md, "", "  ")
		checkErr(err)
		fmt.Println(string(buf))
	},
}

func init() {
	inspectCmd.PersistentFlags().BoolVar(&inspectSkipRowGroups, "skip-row-groups", false, "skip row groups without materializing them")
	inspectCmd.PersistentFlags().StringVar(&inspectFields, "fields", "", "field selection, e.g. 'schema,num_rows' or '!row_groups'")
	rootCmd.AddCommand(inspectCmd)
}
