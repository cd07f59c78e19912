package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tradelog/tradelog/api"
	"github.com/tradelog/tradelog/cache"
)

var depositsOffline bool

var depositsCmd = &cobra.Command{
	Use:   "deposits",
	Short: "Track cash deposits",
}

var depositsAddCmd = &cobra.Command{
	Use:     "add <amount>",
	Short:   "Record a deposit",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireAuth,
	RunE:    runDepositsAdd,
}

var depositsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List deposit history",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runDepositsList,
}

func init() {
	rootCmd.AddCommand(depositsCmd)
	depositsCmd.AddCommand(depositsAddCmd)
	depositsCmd.AddCommand(depositsListCmd)

	depositsListCmd.Flags().BoolVar(&depositsOffline, "offline", false, "read the local snapshot instead of the backend")
}

func runDepositsAdd(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	dep, err := client.AddDeposit(cmd.Context(), api.Amount(amount))
	if err != nil {
		return err
	}

	out.Successf("Deposit %d recorded: %.2f", dep.ID, float64(dep.Amount))
	return nil
}

func runDepositsList(cmd *cobra.Command, args []string) error {
	var deposits []api.Deposit

	if depositsOffline {
		c, err := cache.NewSQLite(cfg.CachePath())
		if err != nil {
			return err
		}
		defer c.Close()

		deposits, err = c.ListDeposits()
		if err != nil {
			return err
		}
	} else {
		var err error
		deposits, err = client.ListDeposits(cmd.Context())
		if err != nil {
			return err
		}
		refreshDepositCache(deposits)
	}

	if len(deposits) == 0 {
		out.Infof("No deposits recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAMOUNT\tDATE")
	for _, d := range deposits {
		fmt.Fprintf(w, "%d\t%.2f\t%s\n", d.ID, float64(d.Amount), d.DepositedAt)
	}
	return w.Flush()
}

func refreshDepositCache(deposits []api.Deposit) {
	c, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		out.Errorf("snapshot cache unavailable: %v", err)
		return
	}
	defer c.Close()

	if err := c.ReplaceDeposits(deposits); err != nil {
		out.Errorf("could not update snapshot cache: %v", err)
	}
}
