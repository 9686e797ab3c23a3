package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/clil-studio/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
lesson library and activity generation as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, closeLib, err := openLibrary(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("opening library: %w", err)
		}
		defer closeLib()

		var generator mcpserver.Generator
		if svc, err := createServiceFromConfig(cfg); err == nil {
			generator = svc
		} else {
			fmt.Fprintf(os.Stderr, "Warning: generate_activity disabled: %v\n", err)
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "clilstudio MCP server started on stdio (owner=%s, db=%s)\n", cfg.Owner, cfg.DatabasePath())

		srv := mcpserver.NewServer(store, generator, cfg.Owner)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
