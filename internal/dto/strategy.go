package dto

import "strategy-backtest/internal/model"

type StrategySavedResponse struct {
	Message  string          `json:"message"`
	Strategy *model.Strategy `json:"strategy"`
	Summary  BacktestSummary `json:"summary"`
}

// StrategySaveFailure reports a persistence failure without discarding the
// report that was already computed in the same request.
type StrategySaveFailure struct {
	Error   string          `json:"error"`
	Summary BacktestSummary `json:"summary"`
}

type StrategyListResponse struct {
	Strategies []model.Strategy `json:"strategies"`
}
