package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show entitlement status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Reconciler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reconciler not initialized.")
			return nil
		}

		app.Reconciler.Start(cmd.Context())

		fmt.Fprintf(cmd.OutOrStdout(), "State:    %s\n", app.Reconciler.State())
		fmt.Fprintf(cmd.OutOrStdout(), "Loading:  %t\n", app.Reconciler.Loading())
		fmt.Fprintf(cmd.OutOrStdout(), "Premium:  %t\n", app.Reconciler.IsPremium())
		fmt.Fprintf(cmd.OutOrStdout(), "Products: %d\n", len(app.Reconciler.Products()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
