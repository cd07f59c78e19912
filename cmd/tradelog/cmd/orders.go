package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelog/tradelog/api"
)

var (
	orderSymbol   string
	orderQuantity int
	orderPrice    float64
	orderDate     string
	orderType     string

	closePrice float64
	closeDate  string
	closeNote  string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Record and manage buy/sell orders",
}

var ordersCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Record a new order",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runOrdersCreate,
}

var ordersListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List your orders",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE:    runOrdersList,
}

var ordersCommentCmd = &cobra.Command{
	Use:     "comment <order-id> <comment>",
	Short:   "Set the comment on an order",
	Args:    cobra.MinimumNArgs(2),
	PreRunE: requireAuth,
	RunE:    runOrdersComment,
}

var ordersCloseCmd = &cobra.Command{
	Use:     "close <order-id>",
	Short:   "Close an open order",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireAuth,
	RunE:    runOrdersClose,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersCommentCmd)
	ordersCmd.AddCommand(ordersCloseCmd)

	ordersCreateCmd.Flags().StringVarP(&orderSymbol, "symbol", "s", "", "stock symbol (required)")
	ordersCreateCmd.Flags().IntVarP(&orderQuantity, "quantity", "q", 0, "number of shares (required)")
	ordersCreateCmd.Flags().Float64VarP(&orderPrice, "price", "p", 0, "price per share (required)")
	ordersCreateCmd.Flags().StringVarP(&orderDate, "date", "d", "", "order date YYYY-MM-DD (default today)")
	ordersCreateCmd.Flags().StringVarP(&orderType, "type", "t", "buy", "order type: buy or sell")
	ordersCreateCmd.MarkFlagRequired("symbol")
	ordersCreateCmd.MarkFlagRequired("quantity")
	ordersCreateCmd.MarkFlagRequired("price")

	ordersCloseCmd.Flags().Float64VarP(&closePrice, "price", "p", 0, "closing price per share (required)")
	ordersCloseCmd.Flags().StringVarP(&closeDate, "date", "d", "", "close date YYYY-MM-DD (default today)")
	ordersCloseCmd.Flags().StringVarP(&closeNote, "note", "n", "", "note for the completed trade")
	ordersCloseCmd.MarkFlagRequired("price")
}

func runOrdersCreate(cmd *cobra.Command, args []string) error {
	if orderType != "buy" && orderType != "sell" {
		return fmt.Errorf("type must be buy or sell, got %q", orderType)
	}
	if orderDate == "" {
		orderDate = time.Now().Format("2006-01-02")
	}

	order, err := client.CreateOrder(cmd.Context(), api.CreateOrderRequest{
		Symbol:    strings.ToUpper(orderSymbol),
		Quantity:  orderQuantity,
		Price:     api.Amount(orderPrice),
		Date:      orderDate,
		OrderType: orderType,
	})
	if err != nil {
		return err
	}

	out.Successf("Order %d recorded: %s %d %s @ %.2f", order.ID, order.OrderType, order.Quantity, order.Symbol, float64(order.Price))
	return nil
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	orders, err := client.ListOrders(cmd.Context())
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		out.Infof("No orders recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYMBOL\tTYPE\tQTY\tPRICE\tDATE\tSTATUS\tCOMMENT")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
			o.ID, o.Symbol, o.OrderType, o.Quantity, float64(o.Price), o.Date, o.Status, o.Comment)
	}
	return w.Flush()
}

func runOrdersComment(cmd *cobra.Command, args []string) error {
	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	comment := strings.Join(args[1:], " ")

	if _, err := client.UpdateOrderComment(cmd.Context(), orderID, comment); err != nil {
		return err
	}

	out.Successf("Comment saved on order %d.", orderID)
	return nil
}

func runOrdersClose(cmd *cobra.Command, args []string) error {
	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	if closeDate == "" {
		closeDate = time.Now().Format("2006-01-02")
	}

	err = client.CloseTrade(cmd.Context(), orderID, api.CloseTradeRequest{
		ClosePrice: api.Amount(closePrice),
		CloseDate:  closeDate,
		Note:       closeNote,
	})
	if err != nil {
		return err
	}

	out.Successf("Order %d closed at %.2f.", orderID, closePrice)
	return nil
}
