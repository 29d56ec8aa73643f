package backtest

import "math"

// TradingDaysPerYear is the annualization constant for the Sharpe ratio.
const TradingDaysPerYear = 252

// Metrics holds the full-precision backtest statistics plus the series they
// were derived from. Rounding happens at the presentation boundary only.
type Metrics struct {
	SharpeRatio      float64
	CumulativeReturn float64
	MaxDrawdown      float64
	WinRate          float64
	StrategyReturns  []float64
	EquityCurve      []float64
}

// ComputeMetrics combines daily returns with the position signal. Both
// slices must be the same length (the evaluator enforces this). It is a pure
// function: identical inputs give bit-identical output, and no well-formed
// input makes it fail — numeric degeneracies are policy-handled.
func ComputeMetrics(returns, positions []float64) Metrics {
	n := len(returns)

	strategyReturns := make([]float64, n)
	equity := make([]float64, n)
	cumulative := 1.0
	for i := range returns {
		strategyReturns[i] = returns[i] * positions[i]
		cumulative *= 1 + strategyReturns[i]
		equity[i] = cumulative
	}

	return Metrics{
		SharpeRatio:      sharpeRatio(strategyReturns),
		CumulativeReturn: cumulative - 1,
		MaxDrawdown:      maxDrawdown(equity),
		WinRate:          winRate(strategyReturns),
		StrategyReturns:  strategyReturns,
		EquityCurve:      equity,
	}
}

// sharpeRatio annualizes mean/std by sqrt(252). A flat return series has
// zero variance; the ratio is defined as 0 there instead of NaN.
func sharpeRatio(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}

	sum := 0.0
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(n-1))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(TradingDaysPerYear)
}

// maxDrawdown is the worst decline of the equity curve relative to its
// running peak, as a fraction <= 0.
func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	worst := 0.0
	peak := equity[0]
	for _, value := range equity {
		if value > peak {
			peak = value
		}
		drawdown := value/peak - 1
		if drawdown < worst {
			worst = drawdown
		}
	}
	return worst
}

func winRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

// Round4 rounds for presentation; internal computation keeps full precision.
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
