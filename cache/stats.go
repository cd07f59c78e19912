package cache

import "math"

// Stats are the journal aggregates computed from the local snapshot. They
// mirror the figures the backend reports on the user record.
type Stats struct {
	TotalTrades    int
	WinRate        float64 // percentage of trades with positive P/L
	ProfitFactor   float64 // gross profit / gross loss, 0 when lossless
	AvgProfitLoss  float64
	AvgHoldingDays float64
	TotalDeposits  float64
}

// Stats computes the aggregates over the cached snapshot.
func (c *SQLite) Stats() (Stats, error) {
	var s Stats

	var (
		wins        int
		grossProfit float64
		grossLoss   float64
		netTotal    float64
		durTotal    float64
	)

	row := c.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN net_amount > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN net_amount > 0 THEN net_amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN net_amount < 0 THEN net_amount ELSE 0 END), 0),
			COALESCE(SUM(net_amount), 0),
			COALESCE(SUM(duration), 0)
		FROM trades`)
	if err := row.Scan(&s.TotalTrades, &wins, &grossProfit, &grossLoss, &netTotal, &durTotal); err != nil {
		return Stats{}, err
	}

	if s.TotalTrades > 0 {
		s.WinRate = round2(float64(wins) / float64(s.TotalTrades) * 100)
		s.AvgProfitLoss = round2(netTotal / float64(s.TotalTrades))
		s.AvgHoldingDays = round2(durTotal / float64(s.TotalTrades))
	}
	if grossLoss != 0 {
		s.ProfitFactor = round2(grossProfit / math.Abs(grossLoss))
	}

	row = c.db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM deposits`)
	if err := row.Scan(&s.TotalDeposits); err != nil {
		return Stats{}, err
	}
	s.TotalDeposits = round2(s.TotalDeposits)

	return s, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
