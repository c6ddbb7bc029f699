package transaction

import (
	"encoding/json"
	"errors"
	"time"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is the persisted record in the transactions partition.
// Amount is always a positive magnitude with two fraction digits; the
// sign is derived from Type at aggregation time.
type Transaction struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CategoryID      int64     `json:"category_id"`
	Type            Type      `json:"type"`
	Amount          string    `json:"amount"`
	TransactionDate Date      `json:"transaction_date"`
	Comment         *string   `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrMissingFields = errors.New("category_id, type, amount and transaction_date are required")
	ErrInvalidType   = errors.New("type must be income or expense")
)

// Filter predicates are conjunctive; nil means "not filtered".
// Offset below zero is treated as zero, Limit at or below zero as
// "the full remaining length".
type Filter struct {
	CategoryID *int64
	Type       *Type
	StartDate  *Date
	EndDate    *Date
	Offset     int
	Limit      int
}

// Amount is a json.Number so clients may send either "12.50" or 12.5,
// matching what the API has historically accepted.
type CreateTransactionRequest struct {
	CategoryID      int64       `json:"category_id"`
	Type            Type        `json:"type" binding:"omitempty,oneof=income expense"`
	Amount          json.Number `json:"amount"`
	TransactionDate Date        `json:"transaction_date"`
	Comment         *string     `json:"comment" binding:"omitempty,max=500"`
}

// Omitted fields keep their prior values. Comment is tri-state: absent
// keeps the prior value, null or "" clears it.
type UpdateTransactionRequest struct {
	CategoryID      *int64         `json:"category_id"`
	Type            *Type          `json:"type" binding:"omitempty,oneof=income expense"`
	Amount          *json.Number   `json:"amount"`
	TransactionDate *Date          `json:"transaction_date"`
	Comment         OptionalString `json:"comment"`
}
