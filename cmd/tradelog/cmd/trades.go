package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tradelog/tradelog/api"
	"github.com/tradelog/tradelog/cache"
)

var tradesOffline bool

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Review completed trades",
}

var tradesListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List completed trades with realized P/L",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runTradesList,
}

var tradesNoteCmd = &cobra.Command{
	Use:     "note <trade-id> <note>",
	Short:   "Set the note on a completed trade",
	Args:    cobra.MinimumNArgs(2),
	PreRunE: requireAuth,
	RunE:    runTradesNote,
}

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesCmd.AddCommand(tradesListCmd)
	tradesCmd.AddCommand(tradesNoteCmd)

	tradesListCmd.Flags().BoolVar(&tradesOffline, "offline", false, "read the local snapshot instead of the backend")
}

func runTradesList(cmd *cobra.Command, args []string) error {
	var trades []api.CompletedTrade

	if tradesOffline {
		c, err := cache.NewSQLite(cfg.CachePath())
		if err != nil {
			return err
		}
		defer c.Close()

		trades, err = c.ListTrades()
		if err != nil {
			return err
		}
	} else {
		var err error
		trades, err = client.ListCompletedTrades(cmd.Context())
		if err != nil {
			return err
		}
		refreshTradeCache(trades)
	}

	if len(trades) == 0 {
		out.Infof("No completed trades yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYMBOL\tTYPE\tQTY\tOPEN\tCLOSE\tP/L\tDAYS\tNOTE")
	for _, t := range trades {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%.2f\t%+.2f\t%d\t%s\n",
			t.ID, t.Symbol, t.OrderType, t.Quantity,
			float64(t.OpenPrice), float64(t.ClosePrice), float64(t.NetAmount),
			t.Duration, t.Note)
	}
	return w.Flush()
}

func runTradesNote(cmd *cobra.Command, args []string) error {
	tradeID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("trade id: %w", err)
	}
	note := strings.Join(args[1:], " ")

	if _, err := client.UpdateTradeNote(cmd.Context(), tradeID, note); err != nil {
		return err
	}

	out.Successf("Note saved on trade %d.", tradeID)
	return nil
}

// refreshTradeCache mirrors a successful fetch into the local snapshot. A
// cache failure only costs offline mode, so it is reported and ignored.
func refreshTradeCache(trades []api.CompletedTrade) {
	c, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		out.Errorf("snapshot cache unavailable: %v", err)
		return
	}
	defer c.Close()

	if err := c.ReplaceTrades(trades); err != nil {
		out.Errorf("could not update snapshot cache: %v", err)
	}
}
