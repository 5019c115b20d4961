package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Re-check existing purchases and refresh the entitlement",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Reconciler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reconciler not initialized.")
			return nil
		}

		ctx := cmd.Context()
		app.Reconciler.Start(ctx)
		if err := app.Reconciler.Restore(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Premium: %t\n", app.Reconciler.IsPremium())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
