package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sustrend/zeroe-viz/internal/chart"
	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/monitoring"
)

const compositeFileName = "Comparativo_Impactos.png"

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Write the composite and per-metric comparison charts as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("render"); err != nil {
			return err
		}

		in, _, baseline, err := resolveInputs(cmd.Flags())
		if err != nil {
			return err
		}
		env, err := initEnv(cfg, baseline)
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		monitoring.SimulationsTotal.WithLabelValues("cli").Inc()
		res := env.Calculator.Run(in)

		paths, err := writeCharts(cmd.Context(), env.Renderer, res.Datasets, outDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	addParamFlags(chartsCmd.Flags())
	chartsCmd.Flags().String("out", "charts", "output directory")
	rootCmd.AddCommand(chartsCmd)
}

// writeCharts renders the composite and each dataset's chart concurrently
// into dir. Paths are returned composite first, then in dataset order.
func writeCharts(ctx context.Context, r *chart.Renderer, ds []model.ComparisonDataset, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "charts: create %s", dir)
	}

	paths := make([]string, len(ds)+1)
	g, _ := errgroup.WithContext(ctx)

	paths[0] = filepath.Join(dir, compositeFileName)
	g.Go(func() error {
		img, err := r.CompositePNG(ds)
		if err != nil {
			return err
		}
		return writeFile(paths[0], img)
	})

	for i, d := range ds {
		paths[i+1] = filepath.Join(dir, d.FileName())
		g.Go(func() error {
			img, err := r.PNG(d)
			if err != nil {
				return err
			}
			return writeFile(paths[i+1], img)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "charts: write %s", path)
	}
	zap.L().Info("chart written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
