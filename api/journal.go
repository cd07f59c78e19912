package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateOrder records a new buy or sell order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the user's orders, open and closed.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderComment patches the free-text comment on an order.
func (c *Client) UpdateOrderComment(ctx context.Context, orderID int64, comment string) (*Order, error) {
	body := map[string]string{"comment": comment}

	var order Order
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/", orderID), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CloseTrade closes an open order at the given price and date. The backend
// computes realized P/L and holding duration and moves the order to the
// completed-trades list.
func (c *Client) CloseTrade(ctx context.Context, orderID int64, req CloseTradeRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/close/", orderID), req, nil)
}

// ListCompletedTrades returns closed trades with realized P/L.
func (c *Client) ListCompletedTrades(ctx context.Context) ([]CompletedTrade, error) {
	var trades []CompletedTrade
	if err := c.do(ctx, http.MethodGet, "/api/completed-trades/", nil, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// UpdateTradeNote patches the note on a completed trade.
func (c *Client) UpdateTradeNote(ctx context.Context, tradeID int64, note string) (*CompletedTrade, error) {
	body := map[string]string{"note": note}

	var trade CompletedTrade
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/completed-trades/%d/", tradeID), body, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// ListOpenPositions returns the current open exposure per symbol.
func (c *Client) ListOpenPositions(ctx context.Context) ([]OpenPosition, error) {
	var positions []OpenPosition
	if err := c.do(ctx, http.MethodGet, "/api/open-positions/", nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// AddDeposit records a cash deposit.
func (c *Client) AddDeposit(ctx context.Context, amount Amount) (*Deposit, error) {
	body := map[string]Amount{"amount": amount}

	var dep Deposit
	if err := c.do(ctx, http.MethodPost, "/api/deposits/", body, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// ListDeposits returns the deposit history.
func (c *Client) ListDeposits(ctx context.Context) ([]Deposit, error) {
	var deposits []Deposit
	if err := c.do(ctx, http.MethodGet, "/api/deposits/", nil, &deposits); err != nil {
		return nil, err
	}
	return deposits, nil
}

// FetchUser returns the user record with the backend's aggregate stats.
func (c *Client) FetchUser(ctx context.Context, userID int64) (*UserStats, error) {
	var stats UserStats
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/", userID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
