package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/config"
	"github.com/ziadkadry99/clil-studio/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	appLog = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "clilstudio",
	Short: "AI-assisted authoring of CLIL lessons",
	Long: `CLIL Studio generates Content and Language Integrated Learning
activities with an LLM, keeps every section's versions so you can step
back and forth between them, and stores finished lessons in a searchable
library. Run it as a local CLI, as an HTTP server for the web editor,
or as an MCP server for AI agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		if !verbose && logFormat == "console" {
			return nil
		}
		l, err := logger.New(logFormat)
		if err != nil {
			return err
		}
		appLog = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")
}
