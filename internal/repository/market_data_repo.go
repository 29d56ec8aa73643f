package repository

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"strategy-backtest/config"
	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/dto"
	"strategy-backtest/pkg/cache"
	"strategy-backtest/pkg/httpclient"
	"strategy-backtest/pkg/logger"

	"golang.org/x/time/rate"
)

type MarketDataRepository interface {
	GetDailyPrices(ctx context.Context, param dto.GetPriceDataParam) (*backtest.PriceTable, error)
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter
}

// NewMarketDataRepository builds a Yahoo-Finance-chart-shaped daily price
// source. Requests are rate limited client-side; transient failures are
// retried by the HTTP client a bounded number of times before surfacing.
func NewMarketDataRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)

	return &marketDataRepository{
		httpClient: httpclient.New(log, cfg.MarketData.BaseURL, cfg.MarketData.Timeout, httpclient.RetryOptions{
			MaxRetries:  cfg.MarketData.MaxRetries,
			WaitTime:    cfg.MarketData.RetryWaitTime,
			MaxWaitTime: 10 * cfg.MarketData.RetryWaitTime,
		}),
		cfg:            cfg,
		logger:         log,
		cache:          inmemoryCache,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *marketDataRepository) GetDailyPrices(ctx context.Context, param dto.GetPriceDataParam) (*backtest.PriceTable, error) {
	cacheKey := fmt.Sprintf("prices:%s:%s:%s", param.Ticker, param.Start.Format(time.DateOnly), param.End.Format(time.DateOnly))
	if r.cfg.MarketData.CacheTTL > 0 {
		if cached, found := r.cache.Get(cacheKey); found {
			if table, ok := cached.(*backtest.PriceTable); ok {
				return table, nil
			}
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	endpoint := "/" + param.Ticker
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", param.Start.Unix()),
		"period2":        fmt.Sprintf("%d", param.End.Unix()),
		"interval":       "1d",
		"includePrePost": "false",
		"events":         "div,split",
	}
	headers := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var chartResp dto.ChartResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &chartResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	// The source answers 404 for unknown symbols; that is an empty result,
	// not an outage.
	if resp.StatusCode == http.StatusNotFound {
		return &backtest.PriceTable{Ticker: param.Ticker}, nil
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Market data source returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", param.Ticker),
			logger.StringField("body", string(resp.Body)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFetch, resp.StatusCode)
	}

	table := buildPriceTable(param.Ticker, &chartResp)
	if r.cfg.MarketData.CacheTTL > 0 && len(table.Bars) > 0 {
		r.cache.Set(cacheKey, table, r.cfg.MarketData.CacheTTL)
	}
	return table, nil
}

func buildPriceTable(ticker string, chartResp *dto.ChartResponse) *backtest.PriceTable {
	table := &backtest.PriceTable{Ticker: ticker}
	if len(chartResp.Chart.Result) == 0 {
		return table
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return table
	}
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}
	table.HasAdjClose = len(adjClose) > 0

	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		bar := backtest.PriceBar{
			Date:     time.Unix(timestamp, 0).UTC(),
			Close:    deref(quote.Close[i]),
			AdjClose: math.NaN(),
		}
		if i < len(adjClose) {
			bar.AdjClose = deref(adjClose[i])
		}
		table.Bars = append(table.Bars, bar)
	}
	return table
}

// deref maps the source's null quotes to NaN so the normalizer can drop them.
func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
