package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the calculator and chart renderer as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("render"); err != nil {
			return err
		}

		env, err := initEnv(cfg, nil)
		if err != nil {
			return err
		}

		srv := mcptools.New(env.Calculator, env.Renderer).NewServer(version)
		zap.L().Info("starting mcp server", zap.String("transport", "stdio"))
		if err := server.ServeStdio(srv); err != nil {
			return eris.Wrap(err, "mcp: serve stdio")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
