package repository

import (
	"strategy-backtest/config"
	"strategy-backtest/pkg/cache"
	"strategy-backtest/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	MarketDataRepo MarketDataRepository
	StrategyRepo   StrategyRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		MarketDataRepo: NewMarketDataRepository(cfg, inmemoryCache, log),
		StrategyRepo:   NewStrategyRepository(db),
	}
}
