// Package cache keeps a local SQLite snapshot of the last fetched completed
// trades and deposits, so listing and statistics still work when the backend
// is unreachable.
package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tradelog/tradelog/api"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the snapshot database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// ReplaceTrades swaps the cached trade snapshot for the given list.
// Replacement is all-or-nothing so a partial write never mixes two fetches.
func (c *SQLite) ReplaceTrades(trades []api.CompletedTrade) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		return err
	}

	for _, t := range trades {
		_, err := tx.Exec(`
			INSERT INTO trades
			(id, symbol, order_type, quantity, open_price, open_date, close_price, close_date, net_amount, duration, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Symbol, t.OrderType, t.Quantity,
			float64(t.OpenPrice), t.OpenDate,
			float64(t.ClosePrice), t.CloseDate,
			float64(t.NetAmount), t.Duration, t.Note,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceDeposits swaps the cached deposit snapshot for the given list.
func (c *SQLite) ReplaceDeposits(deposits []api.Deposit) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM deposits`); err != nil {
		return err
	}

	for _, d := range deposits {
		_, err := tx.Exec(`
			INSERT INTO deposits (id, amount, deposited_at) VALUES (?, ?, ?)`,
			d.ID, float64(d.Amount), d.DepositedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListTrades returns the cached trades, most recently closed first.
func (c *SQLite) ListTrades() ([]api.CompletedTrade, error) {
	rows, err := c.db.Query(`
		SELECT id, symbol, order_type, quantity, open_price, open_date, close_price, close_date, net_amount, duration, note
		FROM trades
		ORDER BY close_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.CompletedTrade
	for rows.Next() {
		var (
			t                     api.CompletedTrade
			openP, closeP, netAmt float64
		)
		if err := rows.Scan(
			&t.ID, &t.Symbol, &t.OrderType, &t.Quantity,
			&openP, &t.OpenDate, &closeP, &t.CloseDate,
			&netAmt, &t.Duration, &t.Note,
		); err != nil {
			return nil, err
		}
		t.OpenPrice = api.Amount(openP)
		t.ClosePrice = api.Amount(closeP)
		t.NetAmount = api.Amount(netAmt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListDeposits returns the cached deposits, newest first.
func (c *SQLite) ListDeposits() ([]api.Deposit, error) {
	rows, err := c.db.Query(`
		SELECT id, amount, deposited_at FROM deposits ORDER BY deposited_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Deposit
	for rows.Next() {
		var (
			d   api.Deposit
			amt float64
		)
		if err := rows.Scan(&d.ID, &amt, &d.DepositedAt); err != nil {
			return nil, err
		}
		d.Amount = api.Amount(amt)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *SQLite) Close() error {
	return c.db.Close()
}
