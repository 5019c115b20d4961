package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy [product-id]",
	Short: "Start a subscription purchase",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Reconciler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reconciler not initialized.")
			return nil
		}

		productID := ""
		if len(args) > 0 {
			productID = args[0]
		}

		ctx := cmd.Context()
		app.Reconciler.Start(ctx)
		if err := app.Reconciler.Purchase(ctx, productID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Purchase requested. Premium: %t\n", app.Reconciler.IsPremium())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
}
