package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestComputeMetrics_WorkedScenario(t *testing.T) {
	// Prices 100 -> 110 -> 99 with an always-long signal.
	returns := []float64{0.10, -0.10}
	metrics := ComputeMetrics(returns, ones(2))

	assert.InDelta(t, 1.10, metrics.EquityCurve[0], 1e-12)
	assert.InDelta(t, 0.99, metrics.EquityCurve[1], 1e-12)
	assert.Equal(t, -0.01, Round4(metrics.CumulativeReturn))
	assert.Equal(t, -0.1, Round4(metrics.MaxDrawdown))
	assert.Equal(t, 0.5, metrics.WinRate)
}

func TestComputeMetrics_ZeroVarianceSharpe(t *testing.T) {
	// A flat price series derives all-zero returns; the zero-variance rule
	// must yield exactly 0, never NaN or Inf.
	metrics := ComputeMetrics([]float64{0, 0, 0, 0}, ones(4))
	assert.Equal(t, 0.0, metrics.SharpeRatio)
	assert.False(t, math.IsNaN(metrics.SharpeRatio))
	assert.False(t, math.IsInf(metrics.SharpeRatio, 0))
}

func TestComputeMetrics_AllOnesSignal(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.03, 0.005}
	metrics := ComputeMetrics(returns, ones(len(returns)))

	// Full exposure means strategy returns equal daily returns and the total
	// equals the compounded price ratio minus one.
	assert.Equal(t, returns, metrics.StrategyReturns)

	wantTotal := 1.0
	for _, r := range returns {
		wantTotal *= 1 + r
	}
	assert.Equal(t, wantTotal-1, metrics.CumulativeReturn)
}

func TestComputeMetrics_AllZerosSignal(t *testing.T) {
	returns := []float64{0.02, -0.05, 0.03}
	metrics := ComputeMetrics(returns, make([]float64, len(returns)))

	assert.Equal(t, 0.0, metrics.CumulativeReturn)
	assert.Equal(t, 0.0, metrics.MaxDrawdown)
	assert.Equal(t, 0.0, metrics.SharpeRatio)
	assert.Equal(t, 0.0, metrics.WinRate)
	assert.Equal(t, []float64{1, 1, 1}, metrics.EquityCurve)
}

func TestComputeMetrics_Idempotent(t *testing.T) {
	returns := []float64{0.017, -0.042, 0.008, 0.031, -0.012}
	positions := []float64{1, 0, 1, 0.5, 1}

	first := ComputeMetrics(returns, positions)
	second := ComputeMetrics(returns, positions)
	assert.Equal(t, first, second)
}

func TestComputeMetrics_RoundTrip(t *testing.T) {
	returns := []float64{0.013, -0.007, 0.021, -0.034, 0.009}
	metrics := ComputeMetrics(returns, ones(len(returns)))

	last := metrics.EquityCurve[len(metrics.EquityCurve)-1]
	assert.Equal(t, Round4(metrics.CumulativeReturn), Round4(last-1))
}

func TestComputeMetrics_MaxDrawdownNeverPositive(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{name: "monotonic rise", returns: []float64{0.01, 0.02, 0.03}, want: 0},
		{name: "single dip", returns: []float64{0.10, -0.10}, want: 0.99/1.1 - 1},
		{name: "deep trough then recovery", returns: []float64{-0.5, 1.0}, want: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := ComputeMetrics(tt.returns, ones(len(tt.returns)))
			assert.InDelta(t, tt.want, metrics.MaxDrawdown, 1e-12)
			assert.LessOrEqual(t, metrics.MaxDrawdown, 0.0)
		})
	}
}

func TestComputeMetrics_PartialExposure(t *testing.T) {
	returns := []float64{0.10, -0.10}
	metrics := ComputeMetrics(returns, []float64{0.5, 0})

	require.Len(t, metrics.StrategyReturns, 2)
	assert.InDelta(t, 0.05, metrics.StrategyReturns[0], 1e-12)
	assert.Equal(t, 0.0, metrics.StrategyReturns[1])
	assert.InDelta(t, 0.05, metrics.CumulativeReturn, 1e-12)
	assert.Equal(t, 0.5, metrics.WinRate)
}

func TestRound4(t *testing.T) {
	assert.Equal(t, -0.01, Round4(-0.009999999999999898))
	assert.Equal(t, 1.2346, Round4(1.23456))
	assert.Equal(t, 0.0, Round4(0))
	assert.Equal(t, -0.1, Round4(-0.09999999999999987))
}
