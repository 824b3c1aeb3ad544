package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pageObject/internal/component"
	"pageObject/internal/selector"
)

var probeCmd = &cobra.Command{
	Use:   "probe <url> <selector>",
	Short: "Open a page and print the text of every element a selector matches",
	Long: `Open a page and print the text of every element a selector matches.
The selector is CSS unless --xpath is given. The run is recorded and a screenshot is saved on failure.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.openStore(); err != nil {
			return err
		}

		ctx := cmd.Context()
		session, rec, err := a.newSession(ctx, "probe "+args[0])
		if err != nil {
			return err
		}
		defer func() {
			shot := ""
			if err != nil {
				if path, serr := session.Screenshot(ctx, "failure"); serr == nil {
					shot = path
				} else {
					a.log.Warn("failure screenshot", zap.Error(serr))
				}
			}
			if qerr := session.Quit(); qerr != nil {
				a.log.Warn("quit browser", zap.Error(qerr))
			}
			if eerr := rec.End(ctx, err, shot); eerr != nil {
				a.log.Warn("end run", zap.Error(eerr))
			}
		}()

		var sel selector.Selector = selector.CSS.Raw(args[1])
		if xpath, _ := cmd.Flags().GetBool("xpath"); xpath {
			sel = selector.XPath.Raw(args[1])
		}

		if err := session.Open(ctx, args[0]); err != nil {
			return err
		}
		if err := session.Page().WaitForReady(ctx); err != nil {
			return err
		}

		items := component.NewCollection(session.Page(), sel, func(c *component.Component) *component.Generic {
			return &component.Generic{Component: c}
		})
		if err := items.WaitForEntries(ctx); err != nil {
			return err
		}
		texts, err := items.Texts(ctx)
		if err != nil {
			return err
		}
		for _, text := range texts {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
		a.log.Info("probe finished", zap.Uint("run", rec.RunID()), zap.Int("matches", len(texts)))
		return nil
	},
}

func init() {
	probeCmd.Flags().Bool("xpath", false, "treat the selector as XPath")
	rootCmd.AddCommand(probeCmd)
}
