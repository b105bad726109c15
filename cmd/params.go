package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/model"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List the simulation parameters and their ranges",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(model.Parameters())
		}
		formatParams(os.Stdout, model.Parameters())
		return nil
	},
}

func init() {
	paramsCmd.Flags().Bool("json", false, "print as JSON")
	rootCmd.AddCommand(paramsCmd)
}

func formatParams(out io.Writer, params []model.Parameter) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tLABEL\tUNIT\tMIN\tMAX\tSTEP\tDEFAULT")
	_, _ = fmt.Fprintln(w, "---\t-----\t----\t---\t---\t----\t-------")
	for _, p := range params {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Key, p.Label, p.Unit,
			format.Parameter(p, p.Min),
			format.Parameter(p, p.Max),
			format.Parameter(p, p.Step),
			format.Parameter(p, p.Default),
		)
	}
	_ = w.Flush()
}
