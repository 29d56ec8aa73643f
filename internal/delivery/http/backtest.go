package http

import (
	"context"
	"errors"
	"net/http"

	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/dto"
	"strategy-backtest/internal/repository"
	"strategy-backtest/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	backtestGroup.POST("", h.runBacktest)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := h.bindBacktestRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	start, end, err := req.Window()
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	summary, err := h.service.BacktestService.Run(ctx, dto.RunBacktestParam{
		Code:   req.Code,
		Ticker: req.Ticker,
		Start:  start,
		End:    end,
	})
	if err != nil {
		status, message := h.classifyBacktestError(ctx, err)
		return c.JSON(status, dto.ErrorResponse{Error: message})
	}

	return c.JSON(http.StatusOK, dto.BacktestResponse{
		Message: "Backtest executed",
		Summary: *summary,
	})
}

func (h *HttpAPIHandler) bindBacktestRequest(c echo.Context) (*dto.BacktestRequest, error) {
	req := new(dto.BacktestRequest)
	if err := c.Bind(req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// classifyBacktestError maps pipeline failures onto the three caller-visible
// classes. Strategy compile/run detail is the user's own feedback and passes
// through; upstream and unexpected failures never leak internals.
func (h *HttpAPIHandler) classifyBacktestError(ctx context.Context, err error) (int, string) {
	var definitionErr *backtest.StrategyDefinitionError
	var executionErr *backtest.StrategyExecutionError

	switch {
	case errors.Is(err, backtest.ErrNoData):
		return http.StatusNotFound, "no data found in the given range"
	case errors.Is(err, backtest.ErrInsufficientData):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &definitionErr):
		return http.StatusBadRequest, definitionErr.Error()
	case errors.As(err, &executionErr):
		return http.StatusBadRequest, executionErr.Error()
	case errors.Is(err, repository.ErrUpstreamFetch):
		return http.StatusInternalServerError, "failed to fetch market data"
	default:
		h.log.ErrorContext(ctx, "Unexpected backtest failure", logger.ErrorField(err))
		return http.StatusInternalServerError, "internal server error"
	}
}
