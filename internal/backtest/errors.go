package backtest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the market data source returned zero observations for
	// the requested ticker and range.
	ErrNoData = errors.New("no price data found for the requested ticker and range")

	// ErrInsufficientData means too few rows survived return derivation for
	// the statistics to be meaningful.
	ErrInsufficientData = errors.New("not enough price data to compute statistics")
)

// StrategyDefinitionError reports strategy source that could not be compiled.
type StrategyDefinitionError struct {
	Err error
}

func (e *StrategyDefinitionError) Error() string {
	return fmt.Sprintf("strategy definition: %v", e.Err)
}

func (e *StrategyDefinitionError) Unwrap() error { return e.Err }

// StrategyExecutionError reports a strategy that failed at runtime or
// produced a malformed position signal.
type StrategyExecutionError struct {
	Err error
}

func (e *StrategyExecutionError) Error() string {
	return fmt.Sprintf("strategy execution: %v", e.Err)
}

func (e *StrategyExecutionError) Unwrap() error { return e.Err }
