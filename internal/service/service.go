package service

import (
	"strategy-backtest/config"
	"strategy-backtest/internal/repository"
	"strategy-backtest/pkg/logger"
)

type Service struct {
	BacktestService BacktestService
	StrategyService StrategyService
}

func NewService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) *Service {
	return &Service{
		BacktestService: NewBacktestService(cfg, log, repo.MarketDataRepo),
		StrategyService: NewStrategyService(cfg, log, repo.StrategyRepo),
	}
}
