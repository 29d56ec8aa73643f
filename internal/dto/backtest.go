package dto

import (
	"fmt"
	"time"
)

// BacktestRequest carries the user strategy and the slice of history to run
// it against. All fields are required, nothing defaults.
type BacktestRequest struct {
	Code      string `json:"code" validate:"required"`
	Ticker    string `json:"ticker" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// Window parses the requested date range. Runs after validation, so a
// failure here means the validator and this method disagree on the format.
func (r BacktestRequest) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date is before start_date")
	}
	return start, end, nil
}

// RunBacktestParam is the parsed form handed to the service layer.
type RunBacktestParam struct {
	Code   string
	Ticker string
	Start  time.Time
	End    time.Time
}

// EquityPoint is one plottable point of the compounded equity curve.
type EquityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BacktestSummary is the caller-visible result. The four statistics are
// rounded to 4 decimals; the equity series keeps full precision.
type BacktestSummary struct {
	SharpeRatio      float64       `json:"sharpe_ratio"`
	CumulativeReturn float64       `json:"cumulative_return"`
	MaxDrawdown      float64       `json:"max_drawdown"`
	WinRate          float64       `json:"win_rate"`
	PriceColumnUsed  string        `json:"price_column_used"`
	TradingDays      int           `json:"trading_days"`
	CumulativeSeries []EquityPoint `json:"cumulative_series"`
}

type BacktestResponse struct {
	Message string          `json:"message"`
	Summary BacktestSummary `json:"summary"`
}
