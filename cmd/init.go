package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize clilstudio configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose a provider, quality tier and lesson search, and writes the result to .clilstudio.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
