package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the subscription products on offer",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Reconciler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reconciler not initialized.")
			return nil
		}

		ctx := cmd.Context()
		app.Reconciler.Start(ctx)
		app.Reconciler.ReloadProducts(ctx)

		products := app.Reconciler.Products()
		if len(products) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No products available.")
			return nil
		}

		for _, p := range products {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.ID, p.DisplayPrice)
			for _, offer := range p.Offers {
				fmt.Fprintf(cmd.OutOrStdout(), "  plan: %s\n", offer.BasePlanID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
