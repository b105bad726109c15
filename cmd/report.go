package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/monitoring"
	"github.com/sustrend/zeroe-viz/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an XLSX workbook of inputs, outputs and comparisons",
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

		out, _ := cmd.Flags().GetString("out")
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = cfg.Report.Title
		}

		monitoring.SimulationsTotal.WithLabelValues("cli").Inc()
		res := env.Calculator.Run(in)
		meta := report.NewMeta(title, name)

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "report: create %s", out)
		}
		defer f.Close() //nolint:errcheck

		if err := report.Write(f, res, meta); err != nil {
			return err
		}
		zap.L().Info("report written",
			zap.String("path", out),
			zap.String("report_id", meta.ID),
			zap.String("scenario", name),
		)
		return nil
	},
}

func init() {
	addParamFlags(reportCmd.Flags())
	reportCmd.Flags().String("out", "zeroe-report.xlsx", "output file")
	reportCmd.Flags().String("title", "", "report title (default from config)")
	rootCmd.AddCommand(reportCmd)
}
