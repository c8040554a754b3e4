package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
	"github.com/aman-zulfiqar/solana-lp-router/internal/flags"
	"github.com/aman-zulfiqar/solana-lp-router/internal/pool"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
)

var errNoSource = errors.New("either pool or reserves is required")

// statusFor maps domain errors to HTTP status codes and a public message
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errNoSource), errors.Is(err, amm.ErrInvalidIntent):
		return http.StatusBadRequest, "invalid intent"
	case errors.Is(err, flags.ErrInvalidKey):
		return http.StatusBadRequest, "invalid key"
	case errors.Is(err, pool.ErrPoolNotFound):
		return http.StatusNotFound, "pool not found"
	case errors.Is(err, flags.ErrNotFound):
		return http.StatusNotFound, "flag not found"
	case errors.Is(err, amm.ErrEmptyPool):
		return amm.EmptyPoolCode, "empty pool"
	case errors.Is(err, amm.ErrArithmeticOverflow):
		return http.StatusUnprocessableEntity, "arithmetic overflow"
	case errors.Is(err, reserves.ErrAccountRead):
		return http.StatusBadGateway, "account read failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "pool read timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// JSONErrorHandler renders every error that reaches echo (routing, auth,
// rate limiting, panics, unhandled domain errors) as an ErrorResponse
func JSONErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
			_ = c.JSON(he.Code, ErrorResponse{Error: msg, Code: he.Code})
			return
		}

		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		_ = c.JSON(code, ErrorResponse{Error: msg, Code: code})
	}
}
