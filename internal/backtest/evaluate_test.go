package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries() *NormalizedSeries {
	return &NormalizedSeries{
		Dates:       []time.Time{day(1), day(2), day(3)},
		Prices:      []float64{110, 99, 104},
		Returns:     []float64{0.10, -0.10, 0.05},
		PriceColumn: PriceColumnClose,
	}
}

func TestEvaluateStrategy_AlwaysLong(t *testing.T) {
	signal, err := EvaluateStrategy(testSeries(), "map(returns, 1.0)")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, signal)
}

func TestEvaluateStrategy_ConditionalExposure(t *testing.T) {
	signal, err := EvaluateStrategy(testSeries(), "map(returns, # > 0 ? 1.0 : 0.0)")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, signal)
}

func TestEvaluateStrategy_BooleanSignalCoerced(t *testing.T) {
	signal, err := EvaluateStrategy(testSeries(), "map(prices, # > 100)")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, signal)
}

func TestEvaluateStrategy_MovingAverageHelper(t *testing.T) {
	signal, err := EvaluateStrategy(testSeries(), "map(0..days-1, { prices[#] > sma(prices, 2)[#] ? 1.0 : 0.0 })")
	require.NoError(t, err)
	// sma(prices, 2) = [110, 104.5, 101.5]
	assert.Equal(t, []float64{0, 0, 1}, signal)
}

func TestEvaluateStrategy_DefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "syntax error", code: "map(returns,"},
		{name: "unknown identifier", code: "frobnicate(prices)"},
		{name: "empty source", code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateStrategy(testSeries(), tt.code)
			var definitionErr *StrategyDefinitionError
			assert.ErrorAs(t, err, &definitionErr)
		})
	}
}

func TestEvaluateStrategy_ExecutionErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "wrong length", code: "[1.0, 0.0]"},
		{name: "scalar result", code: "42"},
		{name: "string elements", code: `map(returns, "long")`},
		{name: "index out of range", code: "map(returns, prices[100])"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateStrategy(testSeries(), tt.code)
			var executionErr *StrategyExecutionError
			assert.ErrorAs(t, err, &executionErr)
		})
	}
}

func TestEvaluateStrategy_SeriesNotAliased(t *testing.T) {
	series := testSeries()
	_, err := EvaluateStrategy(series, "map(returns, 1.0)")
	require.NoError(t, err)

	// The environment gets copies; the series the metrics engine reads
	// afterwards must be untouched.
	assert.Equal(t, []float64{0.10, -0.10, 0.05}, series.Returns)
	assert.Equal(t, []float64{110, 99, 104}, series.Prices)
}

func TestSimpleMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.Equal(t, []float64{10, 15, 25, 35}, simpleMovingAverage(values, 2))
	assert.Equal(t, []float64{10, 20, 30, 40}, simpleMovingAverage(values, 1))
	assert.Equal(t, []float64{10, 15, 20, 30}, simpleMovingAverage(values, 3))
	assert.Empty(t, simpleMovingAverage(nil, 5))
}
