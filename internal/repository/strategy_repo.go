package repository

import (
	"context"

	"strategy-backtest/internal/model"

	"gorm.io/gorm"
)

type StrategyRepository interface {
	Create(ctx context.Context, strategy *model.Strategy) error
	GetByUserID(ctx context.Context, userID string) ([]model.Strategy, error)
}

type strategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) StrategyRepository {
	return &strategyRepository{db: db}
}

func (r *strategyRepository) Create(ctx context.Context, strategy *model.Strategy) error {
	return r.db.WithContext(ctx).Create(strategy).Error
}

func (r *strategyRepository) GetByUserID(ctx context.Context, userID string) ([]model.Strategy, error) {
	var strategies []model.Strategy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strategies).Error
	if err != nil {
		return nil, err
	}
	return strategies, nil
}
