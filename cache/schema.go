package cache

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY,
	symbol TEXT NOT NULL,
	order_type TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	open_price REAL NOT NULL,
	open_date TEXT NOT NULL,
	close_price REAL NOT NULL,
	close_date TEXT NOT NULL,
	net_amount REAL NOT NULL,
	duration INTEGER NOT NULL,
	note TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS deposits (
	id INTEGER PRIMARY KEY,
	amount REAL NOT NULL,
	deposited_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_close_date ON trades(close_date);
`
