package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/code-landscape/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize landscape configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure landscape for your project and writes a .landscape.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
