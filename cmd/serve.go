package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strataworks/layerd/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the layer store as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, log, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		defer func() { _ = st.Close() }()

		log.Info("serving",
			zap.String("name", cfg.Server.Name),
			zap.String("db", st.Path()))

		s := mcpserver.New(cfg.Server.Name, st, log)
		return mcpserver.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
