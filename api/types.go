package api

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tradelog/tradelog/session"
)

// Amount is a monetary value. The backend serializes decimal fields as JSON
// strings ("123.45"), so Amount accepts both quoted and bare numbers.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", data, err)
	}
	*a = Amount(f)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// loginResponse is the payload of POST /auth/login/.
type loginResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *session.User `json:"user"`
}

// refreshResponse is the payload of POST /auth/token/refresh/.
type refreshResponse struct {
	Access string `json:"access"`
}

// OTPVerification is returned by POST /auth/verify-otp/.
type OTPVerification struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// Order is a recorded buy or sell, open until closed.
type Order struct {
	ID        int64  `json:"id"`
	Symbol    string `json:"symbol"`
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	Price     Amount `json:"price"`
	OrderType string `json:"order_type"`
	Comment   string `json:"comment"`
	Status    string `json:"status"`
}

// CreateOrderRequest is the body of POST /api/orders/. Date is YYYY-MM-DD.
type CreateOrderRequest struct {
	Symbol    string `json:"symbol"`
	Quantity  int    `json:"quantity"`
	Price     Amount `json:"price"`
	Date      string `json:"date"`
	OrderType string `json:"order_type"`
}

// CloseTradeRequest is the body of POST /api/orders/{id}/close/.
type CloseTradeRequest struct {
	ClosePrice Amount `json:"close_price"`
	CloseDate  string `json:"close_date"`
	Note       string `json:"note,omitempty"`
}

// CompletedTrade is a closed order with realized P/L. The backend flattens
// the originating order's fields into the trade record.
type CompletedTrade struct {
	ID         int64  `json:"id"`
	Symbol     string `json:"symbol"`
	OrderType  string `json:"order_type"`
	Quantity   int    `json:"quantity"`
	OpenPrice  Amount `json:"open_price"`
	OpenDate   string `json:"open_date"`
	ClosePrice Amount `json:"close_price"`
	CloseDate  string `json:"close_date"`
	NetAmount  Amount `json:"net_amount"`
	Duration   int    `json:"duration"` // holding time in days
	Note       string `json:"note"`
}

// OpenPosition is the aggregate open exposure per symbol.
type OpenPosition struct {
	ID         int64  `json:"id"`
	Symbol     string `json:"symbol"`
	Quantity   int    `json:"quantity"`
	TotalValue Amount `json:"total_value"`
}

// Deposit is a cash deposit into the journal account.
type Deposit struct {
	ID          int64  `json:"id"`
	Amount      Amount `json:"amount"`
	DepositedAt string `json:"deposited_at"`
	Username    string `json:"username"`
}

// UserStats is the user record with the backend's aggregate statistics.
type UserStats struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	OpenOrders     int     `json:"no_of_open_orders"`
	ClosedOrders   int     `json:"no_of_closed_orders"`
	TotalOrders    int     `json:"total_no_of_orders"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"profit_factor"`
	AvgProfitLoss  float64 `json:"average_profit_loss"`
	AvgHoldingDays float64 `json:"average_holding_duration"`
	TotalDeposits  Amount  `json:"total_deposits"`
}
