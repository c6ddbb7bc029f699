package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/cache"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
)

type BalanceProvider interface {
	TotalBalance(ctx context.Context, userID int64) (string, error)
}

type BalanceHandler struct {
	reports  BalanceProvider
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewBalanceHandler(reports BalanceProvider, c cache.Cache, cacheTTL time.Duration) *BalanceHandler {
	return &BalanceHandler{reports: reports, cache: c, cacheTTL: cacheTTL}
}

func (h *BalanceHandler) Get(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	key := balanceCacheKey(userID)
	if h.cache != nil {
		if payload, hit := h.cache.Get(ctx.Request.Context(), key); hit {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
			return
		}
	}

	amount, err := h.reports.TotalBalance(ctx.Request.Context(), userID)
	if err != nil {
		RespondInternal(ctx, "Failed to compute balance")
		return
	}

	body := gin.H{"balance": gin.H{"amount": amount}}
	if h.cache != nil {
		if raw, err := json.Marshal(body); err == nil {
			h.cache.Set(ctx.Request.Context(), key, string(raw), h.cacheTTL)
		}
	}

	ctx.JSON(http.StatusOK, body)
}
