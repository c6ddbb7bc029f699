package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nantkhun/fintracker/internal/domain/transaction"
	"github.com/nantkhun/fintracker/internal/money"
	"github.com/nantkhun/fintracker/internal/store"
)

type Transactions struct {
	mu    sync.RWMutex
	store store.Store
}

func NewTransactions(st store.Store) *Transactions {
	return &Transactions{store: st}
}

// ListByUser applies the filter predicates conjunctively over the user's
// transactions, sorts most-recent-first by transaction date (stored
// order breaks ties, so results are deterministic) and then applies
// offset/limit.
func (r *Transactions) ListByUser(ctx context.Context, userID int64, f transaction.Filter) ([]transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []transaction.Transaction
	if err := r.store.Load(ctx, partitionTransactions, &all); err != nil {
		return nil, err
	}

	out := make([]transaction.Transaction, 0)
	for _, t := range all {
		if t.UserID != userID {
			continue
		}
		if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.StartDate != nil && t.TransactionDate.Before(f.StartDate.Time) {
			continue
		}
		if f.EndDate != nil && t.TransactionDate.After(f.EndDate.Time) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.After(out[j].TransactionDate.Time)
	})

	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []transaction.Transaction{}, nil
	}
	out = out[offset:]

	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}

	return out, nil
}

// Create validates the request, normalizes the amount to a positive
// two-fraction-digit magnitude and appends the transaction. The id is
// allocated over the whole partition, not per user.
func (r *Transactions) Create(ctx context.Context, userID int64, req transaction.CreateTransactionRequest) (transaction.Transaction, error) {
	if req.CategoryID == 0 || req.Type == "" || req.Amount == "" || req.TransactionDate.IsZero() {
		return transaction.Transaction{}, transaction.ErrMissingFields
	}
	if !req.Type.Valid() {
		return transaction.Transaction{}, transaction.ErrInvalidType
	}

	amount, err := money.Normalize(req.Amount.String())
	if err != nil {
		return transaction.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var all []transaction.Transaction
	if err := r.store.Load(ctx, partitionTransactions, &all); err != nil {
		return transaction.Transaction{}, err
	}

	ids := make([]int64, len(all))
	for i, t := range all {
		ids[i] = t.ID
	}

	now := time.Now().UTC()
	t := transaction.Transaction{
		ID:              nextID(ids),
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Type:            req.Type,
		Amount:          amount,
		TransactionDate: req.TransactionDate,
		Comment:         req.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	all = append(all, t)
	if err := r.store.Save(ctx, partitionTransactions, all); err != nil {
		return transaction.Transaction{}, err
	}

	return t, nil
}

// Update overwrites the provided fields of the user's transaction and
// keeps the rest. An amount, when provided, goes through the same
// normalization as Create. Missing and foreign-owned ids are both
// transaction.ErrNotFound.
func (r *Transactions) Update(ctx context.Context, userID, id int64, req transaction.UpdateTransactionRequest) (transaction.Transaction, error) {
	if req.Type != nil && !req.Type.Valid() {
		return transaction.Transaction{}, transaction.ErrInvalidType
	}

	var amount string
	if req.Amount != nil {
		var err error
		amount, err = money.Normalize(req.Amount.String())
		if err != nil {
			return transaction.Transaction{}, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var all []transaction.Transaction
	if err := r.store.Load(ctx, partitionTransactions, &all); err != nil {
		return transaction.Transaction{}, err
	}

	idx := indexOfTransaction(all, userID, id)
	if idx < 0 {
		return transaction.Transaction{}, transaction.ErrNotFound
	}

	t := all[idx]
	if req.CategoryID != nil {
		t.CategoryID = *req.CategoryID
	}
	if req.Type != nil {
		t.Type = *req.Type
	}
	if req.Amount != nil {
		t.Amount = amount
	}
	// An empty date string decodes to the zero Date; like null, it
	// keeps the prior value instead of clobbering the stored date.
	if req.TransactionDate != nil && !req.TransactionDate.IsZero() {
		t.TransactionDate = *req.TransactionDate
	}
	if req.Comment.Set {
		t.Comment = req.Comment.Value
	}
	t.UpdatedAt = time.Now().UTC()

	all[idx] = t
	if err := r.store.Save(ctx, partitionTransactions, all); err != nil {
		return transaction.Transaction{}, err
	}

	return t, nil
}

// Delete removes the user's transaction. When the id is missing or owned
// by another user nothing is written back.
func (r *Transactions) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []transaction.Transaction
	if err := r.store.Load(ctx, partitionTransactions, &all); err != nil {
		return err
	}

	idx := indexOfTransaction(all, userID, id)
	if idx < 0 {
		return transaction.ErrNotFound
	}

	all = append(all[:idx], all[idx+1:]...)
	return r.store.Save(ctx, partitionTransactions, all)
}

func indexOfTransaction(all []transaction.Transaction, userID, id int64) int {
	for i, t := range all {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}

	return -1
}
