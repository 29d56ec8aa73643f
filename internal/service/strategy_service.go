package service

import (
	"context"
	"encoding/json"
	"fmt"

	"strategy-backtest/config"
	"strategy-backtest/internal/dto"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/repository"
	"strategy-backtest/pkg/logger"
)

type StrategyService interface {
	Save(ctx context.Context, userID, code string, summary *dto.BacktestSummary) (*model.Strategy, error)
	List(ctx context.Context, userID string) ([]model.Strategy, error)
}

type strategyService struct {
	cfg          *config.Config
	log          *logger.Logger
	strategyRepo repository.StrategyRepository
}

func NewStrategyService(cfg *config.Config, log *logger.Logger, strategyRepo repository.StrategyRepository) StrategyService {
	return &strategyService{
		cfg:          cfg,
		log:          log,
		strategyRepo: strategyRepo,
	}
}

// Save persists the strategy with the win rate it just achieved. The caller
// already holds the computed report; a failure here is a secondary error and
// must not invalidate it.
func (s *strategyService) Save(ctx context.Context, userID, code string, summary *dto.BacktestSummary) (*model.Strategy, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrPersistence, err)
	}

	strategy := &model.Strategy{
		UserID:  userID,
		Code:    code,
		WinRate: summary.WinRate,
		Summary: summaryJSON,
	}
	// A stalled connection must not hold the request open indefinitely; the
	// write gets its own deadline, mirroring the fetch in the backtest path.
	writeCtx, cancel := context.WithTimeout(ctx, s.cfg.DB.Timeout)
	defer cancel()

	if err := s.strategyRepo.Create(writeCtx, strategy); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist strategy",
			logger.StringField("user_id", userID),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%w: %w", repository.ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "Strategy saved",
		logger.StringField("user_id", userID),
		logger.Float64Field("win_rate", strategy.WinRate),
	)
	return strategy, nil
}

func (s *strategyService) List(ctx context.Context, userID string) ([]model.Strategy, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.DB.Timeout)
	defer cancel()

	strategies, err := s.strategyRepo.GetByUserID(queryCtx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list strategies",
			logger.StringField("user_id", userID),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%w: %w", repository.ErrPersistence, err)
	}
	return strategies, nil
}
