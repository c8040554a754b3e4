package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
	"github.com/aman-zulfiqar/solana-lp-router/internal/flags"
	"github.com/aman-zulfiqar/solana-lp-router/internal/pool"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
	"github.com/aman-zulfiqar/solana-lp-router/internal/storage"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Pools   *pool.Registry         // Configured pools
	Reader  *reserves.Reader       // Live pool state
	Cache   storage.OperationCache // Recent operations (optional)
	Flags   *flags.Store           // Operation switches (optional)
	DevMode bool                   // Enable detailed error responses in development
	Logger  *logrus.Logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true, Pools: h.Pools.Count()})
}

// ListPools returns every configured pool
func (h *Handlers) ListPools(c echo.Context) error {
	pools := h.Pools.All()
	items := make([]PoolResponse, 0, len(pools))
	for _, p := range pools {
		items = append(items, PoolResponse{
			Name:       p.Name,
			ProgramID:  p.ProgramID.String(),
			Swap:       p.SwapAccount.String(),
			TokenMintA: p.TokenMintA.String(),
			TokenMintB: p.TokenMintB.String(),
			DecimalsA:  p.DecimalsA,
			DecimalsB:  p.DecimalsB,
			PoolMint:   p.PoolMint.String(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// RecentOperations returns the most recently submitted operations
// Accepts limit query parameter (default: 50, range: 1-200)
func (h *Handlers) RecentOperations(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusServiceUnavailable, "operation cache is not configured", nil)
	}

	limit := constants.DefaultRecentOperations
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > constants.MaxRecentOperations {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 200"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentOperations(ctx, int64(limit))
	if err != nil {
		h.Logger.WithError(err).Warn("failed to get recent operations")
		return h.err(c, http.StatusInternalServerError, "failed to get operations", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FlagsUpsert creates or updates a switch
func (h *Handlers) FlagsUpsert(c echo.Context) error {
	var req FlagUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	return h.upsertFlag(c, req.Key, req.Value, req.Reason)
}

// FlagsUpdate updates the switch named in the path
func (h *Handlers) FlagsUpdate(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	return h.upsertFlag(c, key, req.Value, req.Reason)
}

func (h *Handlers) upsertFlag(c echo.Context, key string, value bool, reason string) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, key, value, reason)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert flag", nil)
	}

	h.Logger.WithFields(logrus.Fields{"key": key, "value": value, "reason": out.Reason}).Info("flag updated")
	return c.JSON(http.StatusOK, out)
}

// FlagsGet retrieves a switch by its key
func (h *Handlers) FlagsGet(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsList returns every switch
func (h *Handlers) FlagsList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FlagsDelete removes a switch
func (h *Handlers) FlagsDelete(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}
