package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/cache"
	"github.com/nantkhun/fintracker/internal/domain/transaction"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
	"github.com/nantkhun/fintracker/internal/money"
)

type TransactionStore interface {
	ListByUser(ctx context.Context, userID int64, f transaction.Filter) ([]transaction.Transaction, error)
	Create(ctx context.Context, userID int64, req transaction.CreateTransactionRequest) (transaction.Transaction, error)
	Update(ctx context.Context, userID, id int64, req transaction.UpdateTransactionRequest) (transaction.Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
}

type TransactionsHandler struct {
	transactions TransactionStore
	cache        cache.Cache
}

func NewTransactionsHandler(transactions TransactionStore, c cache.Cache) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions, cache: c}
}

func (h *TransactionsHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	filter, err := parseTransactionFilter(ctx)
	if err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}

	transactions, err := h.transactions.ListByUser(ctx.Request.Context(), userID, filter)
	if err != nil {
		RespondInternal(ctx, "Failed to load transactions")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (h *TransactionsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	var req transaction.CreateTransactionRequest
	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.transactions.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		if isTransactionInputErr(err) {
			RespondBadRequest(ctx, err.Error(), nil)
			return
		}
		RespondInternal(ctx, "Failed to create transaction")
		return
	}

	invalidateReports(ctx.Request.Context(), h.cache, userID)
	ctx.JSON(http.StatusCreated, gin.H{"transaction": created})
}

func (h *TransactionsHandler) Update(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid transaction id", nil)
		return
	}

	var req transaction.UpdateTransactionRequest
	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.transactions.Update(ctx.Request.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			RespondNotFound(ctx, "Transaction not found")
		case isTransactionInputErr(err):
			RespondBadRequest(ctx, err.Error(), nil)
		default:
			RespondInternal(ctx, "Failed to update transaction")
		}
		return
	}

	invalidateReports(ctx.Request.Context(), h.cache, userID)
	ctx.JSON(http.StatusOK, gin.H{"transaction": updated})
}

func (h *TransactionsHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid transaction id", nil)
		return
	}

	if err := h.transactions.Delete(ctx.Request.Context(), userID, id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			RespondNotFound(ctx, "Transaction not found")
			return
		}
		RespondInternal(ctx, "Failed to delete transaction")
		return
	}

	invalidateReports(ctx.Request.Context(), h.cache, userID)
	ctx.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully", "id": id})
}

func isTransactionInputErr(err error) bool {
	return errors.Is(err, transaction.ErrMissingFields) ||
		errors.Is(err, transaction.ErrInvalidType) ||
		errors.Is(err, money.ErrInvalidAmount)
}

func parseTransactionFilter(ctx *gin.Context) (transaction.Filter, error) {
	var f transaction.Filter

	if raw := ctx.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, errors.New("categoryId must be an integer")
		}
		f.CategoryID = &id
	}

	if raw := ctx.Query("type"); raw != "" {
		t := transaction.Type(raw)
		if !t.Valid() {
			return f, transaction.ErrInvalidType
		}
		f.Type = &t
	}

	if raw := ctx.Query("startDate"); raw != "" {
		d, err := transaction.ParseDate(raw)
		if err != nil {
			return f, errors.New("startDate must be YYYY-MM-DD")
		}
		f.StartDate = &d
	}

	if raw := ctx.Query("endDate"); raw != "" {
		d, err := transaction.ParseDate(raw)
		if err != nil {
			return f, errors.New("endDate must be YYYY-MM-DD")
		}
		f.EndDate = &d
	}

	if raw := ctx.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, errors.New("offset must be an integer")
		}
		f.Offset = n
	}

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, errors.New("limit must be an integer")
		}
		f.Limit = n
	}

	return f, nil
}
