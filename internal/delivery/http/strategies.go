package http

import (
	"net/http"

	"strategy-backtest/internal/dto"
	"strategy-backtest/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStrategies(base *echo.Group) {
	strategiesGroup := base.Group("/strategies")
	strategiesGroup.POST("", h.saveStrategy)
	strategiesGroup.GET("", h.listStrategies)
}

// saveStrategy runs the full backtest first and persists afterwards, so a
// store failure can never corrupt an already-computed report: the report is
// returned alongside the secondary error.
func (h *HttpAPIHandler) saveStrategy(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

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

	stored, err := h.service.StrategyService.Save(ctx, userID, req.Code, summary)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.StrategySaveFailure{
			Error:   "failed to save strategy",
			Summary: *summary,
		})
	}

	return c.JSON(http.StatusCreated, dto.StrategySavedResponse{
		Message:  "Strategy saved",
		Strategy: stored,
		Summary:  *summary,
	})
}

func (h *HttpAPIHandler) listStrategies(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	strategies, err := h.service.StrategyService.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list strategies"})
	}

	return c.JSON(http.StatusOK, dto.StrategyListResponse{Strategies: strategies})
}
