package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the reconciler and keep syncing until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Reconciler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reconciler not initialized.")
			return nil
		}

		ctx := cmd.Context()
		app.Reconciler.Start(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "reconciler running (state: %s, premium: %t)\n",
			app.Reconciler.State(), app.Reconciler.IsPremium())

		// Live purchase events keep arriving on the store's listener
		// until the context is cancelled by a shutdown signal.
		<-ctx.Done()

		app.Reconciler.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "reconciler stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
