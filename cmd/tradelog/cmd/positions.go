package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show open positions",
}

var positionsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List open positions per symbol",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runPositionsList,
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	positionsCmd.AddCommand(positionsListCmd)
}

func runPositionsList(cmd *cobra.Command, args []string) error {
	positions, err := client.ListOpenPositions(cmd.Context())
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		out.Infof("No open positions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tQTY\tVALUE")
	for _, p := range positions {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", p.Symbol, p.Quantity, float64(p.TotalValue))
	}
	return w.Flush()
}
