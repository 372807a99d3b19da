package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current environment configuration",
	Long:  `Shows the resolved configuration loaded from environment variables and the .env file.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println(cfg.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
