package service

import (
	"context"
	"time"

	"strategy-backtest/config"
	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/dto"
	"strategy-backtest/internal/repository"
	"strategy-backtest/pkg/logger"
)

// BacktestService runs the fetch -> normalize -> evaluate -> metrics
// pipeline for a single request. Each phase either produces the next
// phase's input or short-circuits with a classifiable error.
type BacktestService interface {
	Run(ctx context.Context, param dto.RunBacktestParam) (*dto.BacktestSummary, error)
}

type backtestService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
}

func NewBacktestService(cfg *config.Config, log *logger.Logger, marketDataRepo repository.MarketDataRepository) BacktestService {
	return &backtestService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
	}
}

func (s *backtestService) Run(ctx context.Context, param dto.RunBacktestParam) (*dto.BacktestSummary, error) {
	// The per-attempt timeout lives in the HTTP client; this deadline caps
	// the whole fetch including retries so a stalled upstream cannot wedge
	// the request.
	fetchDeadline := s.cfg.MarketData.Timeout * time.Duration(s.cfg.MarketData.MaxRetries+1)
	fetchCtx, cancel := context.WithTimeout(ctx, fetchDeadline)
	defer cancel()

	table, err := s.marketDataRepo.GetDailyPrices(fetchCtx, dto.GetPriceDataParam{
		Ticker: param.Ticker,
		Start:  param.Start,
		End:    param.End,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch market data",
			logger.StringField("ticker", param.Ticker),
			logger.ErrorField(err),
		)
		return nil, err
	}

	series, err := backtest.Normalize(table)
	if err != nil {
		return nil, err
	}

	signal, err := backtest.EvaluateStrategy(series, param.Code)
	if err != nil {
		// Strategy failures are the caller's; log at info for operability
		// without treating them as service errors.
		s.log.InfoContext(ctx, "Strategy evaluation rejected",
			logger.StringField("ticker", param.Ticker),
			logger.ErrorField(err),
		)
		return nil, err
	}

	metrics := backtest.ComputeMetrics(series.Returns, signal)

	summary := buildSummary(series, metrics)
	s.log.InfoContext(ctx, "Backtest completed",
		logger.StringField("ticker", param.Ticker),
		logger.IntField("trading_days", summary.TradingDays),
		logger.Float64Field("cumulative_return", summary.CumulativeReturn),
	)
	return summary, nil
}

func buildSummary(series *backtest.NormalizedSeries, metrics backtest.Metrics) *dto.BacktestSummary {
	points := make([]dto.EquityPoint, len(metrics.EquityCurve))
	for i, value := range metrics.EquityCurve {
		points[i] = dto.EquityPoint{
			Date:  series.Dates[i].Format(time.DateOnly),
			Value: value,
		}
	}

	return &dto.BacktestSummary{
		SharpeRatio:      backtest.Round4(metrics.SharpeRatio),
		CumulativeReturn: backtest.Round4(metrics.CumulativeReturn),
		MaxDrawdown:      backtest.Round4(metrics.MaxDrawdown),
		WinRate:          backtest.Round4(metrics.WinRate),
		PriceColumnUsed:  series.PriceColumn,
		TradingDays:      series.Len(),
		CumulativeSeries: points,
	}
}
