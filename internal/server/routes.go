package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = JSONErrorHandler(h.Logger)

	e.Use(SetJSONContentType)
	e.Use(SetNoCacheHeaders)

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}

	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)
	v1.GET("/pools", h.ListPools)
	v1.GET("/operations/recent", h.RecentOperations)

	// Live quotes hit the RPC node, so they are rate limited per client
	qps := cfg.QuoteRate
	if qps <= 0 {
		qps = 5
	}
	quotes := v1.Group("/quote")
	quotes.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(qps),
		Burst:     int(qps) * 2,
		ExpiresIn: 2 * time.Minute,
	})))
	quotes.POST("/deposit", h.QuoteDeposit)
	quotes.POST("/withdraw", h.QuoteWithdraw)
	quotes.POST("/swap", h.QuoteSwap)

	// Operation switches
	if h.Flags != nil {
		flagGroup := v1.Group("/flags")
		flagGroup.GET("", h.FlagsList)
		flagGroup.POST("", h.FlagsUpsert)
		flagGroup.GET("/:key", h.FlagsGet)
		flagGroup.PUT("/:key", h.FlagsUpdate)
		flagGroup.DELETE("/:key", h.FlagsDelete)
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
