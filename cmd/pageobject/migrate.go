package main

import (
	"github.com/spf13/cobra"

	"pageObject/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the recording database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		down, _ := cmd.Flags().GetInt("down")
		if down > 0 {
			return migrations.Down(a.cfg, a.log, down)
		}
		return migrations.Run(a.cfg, a.log)
	},
}

func init() {
	migrateCmd.Flags().Int("down", 0, "roll back this many migrations instead of applying")
	rootCmd.AddCommand(migrateCmd)
}
