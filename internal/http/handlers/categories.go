package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/cache"
	"github.com/nantkhun/fintracker/internal/domain/category"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
)

type CategoryStore interface {
	ListByUser(ctx context.Context, userID int64) ([]category.Category, error)
	Create(ctx context.Context, userID int64, req category.CreateCategoryRequest) (category.Category, error)
	Update(ctx context.Context, userID, id int64, req category.UpdateCategoryRequest) (category.Category, error)
	Delete(ctx context.Context, userID, id int64) error
}

type SummaryProvider interface {
	CategorySummaries(ctx context.Context, userID int64) ([]category.Summary, error)
}

type CategoriesHandler struct {
	categories CategoryStore
	reports    SummaryProvider
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewCategoriesHandler(categories CategoryStore, reports SummaryProvider, c cache.Cache, cacheTTL time.Duration) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, reports: reports, cache: c, cacheTTL: cacheTTL}
}

func summariesCacheKey(userID int64) string {
	return fmt.Sprintf("summaries:%d", userID)
}

func balanceCacheKey(userID int64) string {
	return fmt.Sprintf("balance:%d", userID)
}

// invalidateReports drops the cached summary and balance payloads after
// any write to the user's categories or transactions.
func invalidateReports(ctx context.Context, c cache.Cache, userID int64) {
	if c == nil {
		return
	}
	c.Delete(ctx, summariesCacheKey(userID), balanceCacheKey(userID))
}

func (h *CategoriesHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	categories, err := h.categories.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		RespondInternal(ctx, "Failed to load categories")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoriesHandler) Summary(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	key := summariesCacheKey(userID)
	if h.cache != nil {
		if payload, hit := h.cache.Get(ctx.Request.Context(), key); hit {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
			return
		}
	}

	summaries, err := h.reports.CategorySummaries(ctx.Request.Context(), userID)
	if err != nil {
		RespondInternal(ctx, "Failed to build category summary")
		return
	}

	body := gin.H{"summary": summaries}
	if h.cache != nil {
		if raw, err := json.Marshal(body); err == nil {
			h.cache.Set(ctx.Request.Context(), key, string(raw), h.cacheTTL)
		}
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *CategoriesHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	var req category.CreateCategoryRequest
	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.categories.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, category.ErrNameRequired) {
			RespondBadRequest(ctx, err.Error(), nil)
			return
		}
		RespondInternal(ctx, "Failed to create category")
		return
	}

	invalidateReports(ctx.Request.Context(), h.cache, userID)
	ctx.JSON(http.StatusCreated, gin.H{"category": created})
}

func (h *CategoriesHandler) Update(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid category id", nil)
		return
	}

	var req category.UpdateCategoryRequest
	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.categories.Update(ctx.Request.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, category.ErrNotFound):
			RespondNotFound(ctx, "Category not found")
		case errors.Is(err, category.ErrNameRequired):
			RespondBadRequest(ctx, err.Error(), nil)
		default:
			RespondInternal(ctx, "Failed to update category")
		}
		return
	}

	invalidateReports(ctx.Request.Context(), h.cache, userID)
	ctx.JSON(http.StatusOK, gin.H{"category": updated})
}

func (h *CategoriesHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid category id", nil)
		return
	}

	if err := h.categories.Delete(ctx.Request.Context(), userID, id); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			RespondNotFound(ctx, "Category not found")
			return
		}
		RespondInternal(ctx, "Failed to delete category")
		return
	}

	invalidateReports(ctx.Request.Context(), h.cache, userID)
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "id": id})
}

func pathID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", ctx.Param("id"))
	}
	return id, nil
}
