package http

import (
	"net/http"

	"strategy-backtest/config"
	"strategy-backtest/internal/service"
	"strategy-backtest/pkg/logger"
	"strategy-backtest/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(e *echo.Echo, cfg *config.Config, log *logger.Logger, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      e,
		cfg:       cfg,
		log:       log,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.health)

	base := h.echo.Group("/api",
		middleware.NewRateLimiterMiddleware(h.cfg.API),
		middleware.JWTAuth(h.cfg.Auth, h.log),
	)
	h.SetupBacktest(base)
	h.SetupStrategies(base)
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
