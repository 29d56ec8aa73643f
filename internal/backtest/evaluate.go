package backtest

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
)

// EvaluateStrategy compiles the submitted strategy program and runs it
// against the normalized series. The program is an expression that must
// produce one position weight per trading day; it runs inside the expr VM,
// which has no access to the filesystem, network or anything outside the
// environment built here.
//
// The environment exposes:
//
//	prices  []float64 - chosen price column
//	returns []float64 - daily simple returns
//	dates   []string  - ISO dates, same index
//	days    int       - number of trading days
//	sma(values, window) - simple moving average helper
//
// A typical program: map(0..days-1, { prices[#] > sma(prices, 20)[#] ? 1.0 : 0.0 })
func EvaluateStrategy(series *NormalizedSeries, code string) ([]float64, error) {
	env := buildEnv(series)

	program, err := expr.Compile(code, expr.Env(env))
	if err != nil {
		return nil, &StrategyDefinitionError{Err: err}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, &StrategyExecutionError{Err: err}
	}

	signal, err := coerceSignal(out, series.Len())
	if err != nil {
		return nil, &StrategyExecutionError{Err: err}
	}
	return signal, nil
}

// buildEnv copies the series into the environment so a strategy can never
// alias the data the metrics engine reads afterwards.
func buildEnv(series *NormalizedSeries) map[string]interface{} {
	n := series.Len()

	prices := make([]float64, n)
	copy(prices, series.Prices)

	returns := make([]float64, n)
	copy(returns, series.Returns)

	dates := make([]string, n)
	for i, d := range series.Dates {
		dates[i] = d.Format(time.DateOnly)
	}

	return map[string]interface{}{
		"prices":  prices,
		"returns": returns,
		"dates":   dates,
		"days":    n,
		"sma":     simpleMovingAverage,
	}
}

// simpleMovingAverage averages over the trailing window; early entries where
// the window is not yet full average over what exists so the result stays
// aligned with the input.
func simpleMovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		span := window
		if i+1 < window {
			span = i + 1
		}
		out[i] = sum / float64(span)
	}
	return out
}

// coerceSignal turns the program output into a position signal. Booleans are
// accepted as 0/1 exposure; any other shape, element type, or a length that
// does not match the series is a contract violation, never silently fixed.
func coerceSignal(out interface{}, want int) ([]float64, error) {
	var signal []float64

	switch v := out.(type) {
	case []float64:
		signal = v
	case []int:
		signal = make([]float64, len(v))
		for i, x := range v {
			signal[i] = float64(x)
		}
	case []bool:
		signal = make([]float64, len(v))
		for i, x := range v {
			if x {
				signal[i] = 1
			}
		}
	case []interface{}:
		signal = make([]float64, len(v))
		for i, x := range v {
			switch e := x.(type) {
			case float64:
				signal[i] = e
			case int:
				signal[i] = float64(e)
			case bool:
				if e {
					signal[i] = 1
				}
			default:
				return nil, fmt.Errorf("position signal element %d has unsupported type %T", i, x)
			}
		}
	default:
		return nil, fmt.Errorf("strategy must produce a sequence of position weights, got %T", out)
	}

	if len(signal) != want {
		return nil, fmt.Errorf("position signal length %d does not match %d trading days", len(signal), want)
	}
	return signal, nil
}
