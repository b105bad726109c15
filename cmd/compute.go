package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/monitoring"
	"github.com/sustrend/zeroe-viz/internal/scenario"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Print the projected impact metrics for a set of parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("compute"); err != nil {
			return err
		}

		in, name, baseline, err := resolveInputs(cmd.Flags())
		if err != nil {
			return err
		}
		env, err := initEnv(cfg, baseline)
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("save-scenario"); path != "" {
			s := scenario.Scenario{Name: name, Inputs: in, Baseline: baseline}
			if err := scenario.Save(path, s); err != nil {
				return err
			}
			zap.L().Info("scenario saved", zap.String("path", path), zap.String("scenario", name))
		}

		monitoring.SimulationsTotal.WithLabelValues("cli").Inc()
		res := env.Calculator.Run(in)

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeResultJSON(os.Stdout, res)
		}
		formatResult(os.Stdout, res)
		return nil
	},
}

func init() {
	addParamFlags(computeCmd.Flags())
	computeCmd.Flags().Bool("json", false, "print the full result as JSON")
	computeCmd.Flags().String("save-scenario", "", "write the resolved parameters to a scenario file")
	rootCmd.AddCommand(computeCmd)
}

func writeResultJSON(out io.Writer, res simulate.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		simulate.Result
		Cards []format.Card `json:"cards"`
	}{res, format.Cards(res.Outputs)})
}

func formatResult(out io.Writer, res simulate.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "METRIC\tVALUE")
	_, _ = fmt.Fprintln(w, "------\t-----")
	for _, c := range format.Cards(res.Outputs) {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", c.Label, c.Value)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CHART\tBASELINE\tPROJECTION\tFILE")
	_, _ = fmt.Fprintln(w, "-----\t--------\t----------\t----")
	for _, d := range res.Datasets {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.Title,
			format.Value(d.Unit, d.Baseline()),
			format.Value(d.Unit, d.Projection()),
			d.FileName(),
		)
	}
	_ = w.Flush()
}
