package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"strategy-backtest/config"
	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/dto"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/repository"
	"strategy-backtest/internal/service"
	"strategy-backtest/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBacktestService struct {
	summary *dto.BacktestSummary
	err     error
}

func (s *stubBacktestService) Run(ctx context.Context, param dto.RunBacktestParam) (*dto.BacktestSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

type stubStrategyService struct {
	strategy *model.Strategy
	err      error
}

func (s *stubStrategyService) Save(ctx context.Context, userID, code string, summary *dto.BacktestSummary) (*model.Strategy, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.strategy, nil
}

func (s *stubStrategyService) List(ctx context.Context, userID string) ([]model.Strategy, error) {
	return nil, nil
}

func testSummary() *dto.BacktestSummary {
	return &dto.BacktestSummary{
		SharpeRatio:      0,
		CumulativeReturn: -0.01,
		MaxDrawdown:      -0.1,
		WinRate:          0.5,
		PriceColumnUsed:  backtest.PriceColumnClose,
		TradingDays:      2,
		CumulativeSeries: []dto.EquityPoint{
			{Date: "2024-01-02", Value: 1.1},
			{Date: "2024-01-03", Value: 0.99},
		},
	}
}

func newTestHandler(backtestSvc service.BacktestService, strategySvc service.StrategyService) (*HttpAPIHandler, *echo.Echo) {
	e := echo.New()
	h := NewHttpAPIHandler(
		e,
		&config.Config{},
		&logger.Logger{Logger: zap.NewNop()},
		goValidator.New(),
		&service.Service{BacktestService: backtestSvc, StrategyService: strategySvc},
	)
	return h, e
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validBody = `{"code":"map(returns, 1.0)","ticker":"AAPL","start_date":"2024-01-01","end_date":"2024-02-01"}`

func TestRunBacktest_Success(t *testing.T) {
	h, e := newTestHandler(&stubBacktestService{summary: testSummary()}, &stubStrategyService{})
	c, rec := postJSON(e, "/api/backtest", validBody)

	require.NoError(t, h.runBacktest(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BacktestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Backtest executed", resp.Message)
	assert.Equal(t, -0.01, resp.Summary.CumulativeReturn)
	assert.Equal(t, 2, resp.Summary.TradingDays)
	assert.Len(t, resp.Summary.CumulativeSeries, 2)
}

func TestRunBacktest_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing code", body: `{"ticker":"AAPL","start_date":"2024-01-01","end_date":"2024-02-01"}`},
		{name: "missing ticker", body: `{"code":"map(returns, 1.0)","start_date":"2024-01-01","end_date":"2024-02-01"}`},
		{name: "bad date format", body: `{"code":"map(returns, 1.0)","ticker":"AAPL","start_date":"01/01/2024","end_date":"2024-02-01"}`},
		{name: "not json", body: `not-json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, e := newTestHandler(&stubBacktestService{summary: testSummary()}, &stubStrategyService{})
			c, rec := postJSON(e, "/api/backtest", tt.body)

			require.NoError(t, h.runBacktest(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRunBacktest_EndBeforeStart(t *testing.T) {
	h, e := newTestHandler(&stubBacktestService{summary: testSummary()}, &stubStrategyService{})
	c, rec := postJSON(e, "/api/backtest", `{"code":"map(returns, 1.0)","ticker":"AAPL","start_date":"2024-02-01","end_date":"2024-01-01"}`)

	require.NoError(t, h.runBacktest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunBacktest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "no data", err: backtest.ErrNoData, wantStatus: http.StatusNotFound},
		{name: "insufficient data", err: backtest.ErrInsufficientData, wantStatus: http.StatusBadRequest},
		{name: "strategy definition", err: &backtest.StrategyDefinitionError{Err: fmt.Errorf("unexpected token")}, wantStatus: http.StatusBadRequest},
		{name: "strategy execution", err: &backtest.StrategyExecutionError{Err: fmt.Errorf("length mismatch")}, wantStatus: http.StatusBadRequest},
		{name: "upstream fetch", err: fmt.Errorf("%w: status 502", repository.ErrUpstreamFetch), wantStatus: http.StatusInternalServerError},
		{name: "unexpected", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, e := newTestHandler(&stubBacktestService{err: tt.err}, &stubStrategyService{})
			c, rec := postJSON(e, "/api/backtest", validBody)

			require.NoError(t, h.runBacktest(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRunBacktest_InternalErrorsDoNotLeakDetail(t *testing.T) {
	h, e := newTestHandler(&stubBacktestService{err: fmt.Errorf("pq: connection reset at 10.0.0.3")}, &stubStrategyService{})
	c, rec := postJSON(e, "/api/backtest", validBody)

	require.NoError(t, h.runBacktest(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestSaveStrategy_Success(t *testing.T) {
	stored := &model.Strategy{ID: 7, UserID: "user-123", WinRate: 0.5}
	h, e := newTestHandler(&stubBacktestService{summary: testSummary()}, &stubStrategyService{strategy: stored})
	c, rec := postJSON(e, "/api/strategies", validBody)

	require.NoError(t, h.saveStrategy(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.StrategySavedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Strategy saved", resp.Message)
	require.NotNil(t, resp.Strategy)
	assert.Equal(t, uint(7), resp.Strategy.ID)
	assert.Equal(t, 0.5, resp.Summary.WinRate)
}

func TestSaveStrategy_PersistenceFailureKeepsReport(t *testing.T) {
	saveErr := fmt.Errorf("%w: write timeout", repository.ErrPersistence)
	h, e := newTestHandler(&stubBacktestService{summary: testSummary()}, &stubStrategyService{err: saveErr})
	c, rec := postJSON(e, "/api/strategies", validBody)

	require.NoError(t, h.saveStrategy(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The computed report rides along with the secondary failure.
	var resp dto.StrategySaveFailure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to save strategy", resp.Error)
	assert.Equal(t, -0.01, resp.Summary.CumulativeReturn)
}

func TestSaveStrategy_BacktestFailureShortCircuits(t *testing.T) {
	h, e := newTestHandler(&stubBacktestService{err: backtest.ErrNoData}, &stubStrategyService{})
	c, rec := postJSON(e, "/api/strategies", validBody)

	require.NoError(t, h.saveStrategy(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
