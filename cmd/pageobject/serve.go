package main

import (
	"github.com/spf13/cobra"

	"pageObject/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded runs over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if !a.cfg.Recording.Enabled {
			a.log.Warn("recording is disabled, serving an empty in-memory store")
		}
		if err := a.openStore(); err != nil {
			return err
		}
		return server.New(a.cfg, a.log, a.store).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
