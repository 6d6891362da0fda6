package main

import (
	"github.com/spf13/cobra"

	"labtrack/internal/schema"
	"labtrack/internal/ui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := schema.Default()
		cli, session, err := apiClient(cmd.Context(), reg)
		if err != nil {
			return err
		}
		return ui.Run(reg, cli, session, logger)
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
