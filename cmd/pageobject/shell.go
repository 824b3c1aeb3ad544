package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pageObject/internal/cli"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell for probing selectors on a live page",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.openStore(); err != nil {
			return err
		}

		ctx := cmd.Context()
		session, rec, err := a.newSession(ctx, "shell")
		if err != nil {
			return err
		}
		defer func() {
			if err := session.Quit(); err != nil {
				a.log.Warn("quit browser", zap.Error(err))
			}
			if err := rec.End(ctx, nil, ""); err != nil {
				a.log.Warn("end run", zap.Error(err))
			}
		}()

		cli.New(session, a.store, a.log, a.cfg.Browser.Name).Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
