package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradelog/tradelog/cache"
)

var statsLocal bool

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show journal statistics",
	Long:    `Show win rate, profit factor, average P/L, average holding duration and total deposits.`,
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsLocal, "local", false, "compute from the local snapshot instead of asking the backend")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsLocal {
		return runStatsLocal()
	}

	user := sessions.User()
	if user == nil {
		return fmt.Errorf("stored session has no user record; run 'tradelog login' again")
	}

	stats, err := client.FetchUser(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	out.Infof("Stats for %s", stats.Username)
	out.Infof("  Orders:           %d open, %d closed, %d total", stats.OpenOrders, stats.ClosedOrders, stats.TotalOrders)
	out.Infof("  Win rate:         %.2f%%", stats.WinRate)
	out.Infof("  Profit factor:    %.2f", stats.ProfitFactor)
	out.Infof("  Average P/L:      %.2f", stats.AvgProfitLoss)
	out.Infof("  Average holding:  %.2f days", stats.AvgHoldingDays)
	out.Infof("  Total deposits:   %.2f", float64(stats.TotalDeposits))
	return nil
}

func runStatsLocal() error {
	c, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.Stats()
	if err != nil {
		return err
	}
	if stats.TotalTrades == 0 {
		out.Infof("Snapshot is empty; run 'tradelog trades list' while online first.")
		return nil
	}

	out.Infof("Stats from local snapshot (%d trades)", stats.TotalTrades)
	out.Infof("  Win rate:         %.2f%%", stats.WinRate)
	out.Infof("  Profit factor:    %.2f", stats.ProfitFactor)
	out.Infof("  Average P/L:      %.2f", stats.AvgProfitLoss)
	out.Infof("  Average holding:  %.2f days", stats.AvgHoldingDays)
	out.Infof("  Total deposits:   %.2f", stats.TotalDeposits)
	return nil
}
