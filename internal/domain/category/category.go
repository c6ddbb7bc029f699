package category

import (
	"errors"
	"time"
)

// Category is owned by exactly one user; name, icon and color are
// free-form strings chosen by the client.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is a category joined with the signed sum of its transactions,
// formatted with two fraction digits ("0.00" when there are none).
type Summary struct {
	Category
	Balance string `json:"balance"`
}

var (
	ErrNotFound     = errors.New("category not found")
	ErrNameRequired = errors.New("category name is required")
)

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Icon  string `json:"icon" binding:"omitempty,max=64"`
	Color string `json:"color" binding:"omitempty,max=32"`
}

// Omitted fields keep their prior values.
type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Icon  *string `json:"icon" binding:"omitempty,max=64"`
	Color *string `json:"color" binding:"omitempty,max=32"`
}
