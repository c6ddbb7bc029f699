package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nantkhun/fintracker/internal/domain/category"
	"github.com/nantkhun/fintracker/internal/store"
)

type Categories struct {
	mu    sync.RWMutex
	store store.Store
}

func NewCategories(st store.Store) *Categories {
	return &Categories{store: st}
}

// ListByUser returns the user's categories in stored order. Records
// owned by other users are invisible here, which is the read-side half
// of the ownership guard.
func (r *Categories) ListByUser(ctx context.Context, userID int64) ([]category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []category.Category
	if err := r.store.Load(ctx, partitionCategories, &all); err != nil {
		return nil, err
	}

	out := make([]category.Category, 0)
	for _, c := range all {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *Categories) Create(ctx context.Context, userID int64, req category.CreateCategoryRequest) (category.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return category.Category{}, category.ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var all []category.Category
	if err := r.store.Load(ctx, partitionCategories, &all); err != nil {
		return category.Category{}, err
	}

	ids := make([]int64, len(all))
	for i, c := range all {
		ids[i] = c.ID
	}

	now := time.Now().UTC()
	c := category.Category{
		ID:        nextID(ids),
		UserID:    userID,
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	all = append(all, c)
	if err := r.store.Save(ctx, partitionCategories, all); err != nil {
		return category.Category{}, err
	}

	return c, nil
}

// Update applies the provided fields to the user's category. A category
// that does not exist and one owned by someone else both come back as
// category.ErrNotFound; the caller cannot tell them apart.
func (r *Categories) Update(ctx context.Context, userID, id int64, req category.UpdateCategoryRequest) (category.Category, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return category.Category{}, category.ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var all []category.Category
	if err := r.store.Load(ctx, partitionCategories, &all); err != nil {
		return category.Category{}, err
	}

	idx := indexOfCategory(all, userID, id)
	if idx < 0 {
		return category.Category{}, category.ErrNotFound
	}

	c := all[idx]
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Icon != nil {
		c.Icon = *req.Icon
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	c.UpdatedAt = time.Now().UTC()

	all[idx] = c
	if err := r.store.Save(ctx, partitionCategories, all); err != nil {
		return category.Category{}, err
	}

	return c, nil
}

func (r *Categories) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []category.Category
	if err := r.store.Load(ctx, partitionCategories, &all); err != nil {
		return err
	}

	idx := indexOfCategory(all, userID, id)
	if idx < 0 {
		return category.ErrNotFound
	}

	all = append(all[:idx], all[idx+1:]...)
	return r.store.Save(ctx, partitionCategories, all)
}

func indexOfCategory(all []category.Category, userID, id int64) int {
	for i, c := range all {
		if c.ID == id && c.UserID == userID {
			return i
		}
	}

	return -1
}
