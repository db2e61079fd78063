package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/surajsub/workflow-dispatch/logger"
)

func RegisterRoutes(e *echo.Echo, h *Handler, gatherer prometheus.Gatherer) {
	e.POST("/v1/dispatch", h.SubmitDispatchHandler)
	e.GET("/healthz", HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// NewServer returns an echo instance with middleware and routes in place.
func NewServer(h *Handler, accessLog *logger.ZapAdapter, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler
	e.Use(RequestIDMiddleware)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			accessLog.ForStatus(v.Status)("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", c.Get("requestID"),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	RegisterRoutes(e, h, gatherer)
	return e
}
