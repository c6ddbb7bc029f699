// Package service computes the derived financial aggregates: per-category
// balances and the user's total balance. All monetary outputs are decimal
// strings with two fraction digits.
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nantkhun/fintracker/internal/domain/category"
	"github.com/nantkhun/fintracker/internal/domain/transaction"
	"github.com/nantkhun/fintracker/internal/money"
)

type CategoryLister interface {
	ListByUser(ctx context.Context, userID int64) ([]category.Category, error)
}

type TransactionLister interface {
	ListByUser(ctx context.Context, userID int64, f transaction.Filter) ([]transaction.Transaction, error)
}

type Reports struct {
	categories   CategoryLister
	transactions TransactionLister
}

func NewReports(categories CategoryLister, transactions TransactionLister) *Reports {
	return &Reports{categories: categories, transactions: transactions}
}

// CategorySummaries joins the user's categories with their transactions:
// income adds, expense subtracts. A category with no transactions
// reports "0.00".
func (s *Reports) CategorySummaries(ctx context.Context, userID int64) ([]category.Summary, error) {
	cats, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.ListByUser(ctx, userID, transaction.Filter{})
	if err != nil {
		return nil, err
	}

	summaries := make([]category.Summary, 0, len(cats))
	for _, c := range cats {
		balance := decimal.Zero
		for _, t := range txs {
			if t.CategoryID != c.ID {
				continue
			}

			balance, err = apply(balance, t)
			if err != nil {
				return nil, err
			}
		}

		summaries = append(summaries, category.Summary{
			Category: c,
			Balance:  money.Format(balance),
		})
	}

	return summaries, nil
}

// TotalBalance sums the signed contributions of every transaction the
// user owns.
func (s *Reports) TotalBalance(ctx context.Context, userID int64) (string, error) {
	txs, err := s.transactions.ListByUser(ctx, userID, transaction.Filter{})
	if err != nil {
		return "", err
	}

	balance := decimal.Zero
	for _, t := range txs {
		balance, err = apply(balance, t)
		if err != nil {
			return "", err
		}
	}

	return money.Format(balance), nil
}

func apply(balance decimal.Decimal, t transaction.Transaction) (decimal.Decimal, error) {
	v, err := money.Value(t.Amount)
	if err != nil {
		return balance, fmt.Errorf("transaction %d has unreadable amount %q: %w", t.ID, t.Amount, err)
	}

	if t.Type == transaction.TypeIncome {
		return balance.Add(v), nil
	}

	return balance.Sub(v), nil
}
