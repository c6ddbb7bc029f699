package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nantkhun/fintracker/internal/cache"
	"github.com/nantkhun/fintracker/internal/domain/category"
	"github.com/nantkhun/fintracker/internal/http/handlers"
)

// Fake repository implementation of the handlers.CategoryStore interface

type fakeCategoriesRepo struct {
	listFn   func(ctx context.Context, userID int64) ([]category.Category, error)
	createFn func(ctx context.Context, userID int64, req category.CreateCategoryRequest) (category.Category, error)
	updateFn func(ctx context.Context, userID, id int64, req category.UpdateCategoryRequest) (category.Category, error)
	deleteFn func(ctx context.Context, userID, id int64) error
}

func (f *fakeCategoriesRepo) ListByUser(ctx context.Context, userID int64) ([]category.Category, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return []category.Category{}, nil
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, userID int64, req category.CreateCategoryRequest) (category.Category, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, req)
	}
	return category.Category{}, nil
}

func (f *fakeCategoriesRepo) Update(ctx context.Context, userID, id int64, req category.UpdateCategoryRequest) (category.Category, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, id, req)
	}
	return category.Category{}, nil
}

func (f *fakeCategoriesRepo) Delete(ctx context.Context, userID, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, id)
	}
	return nil
}

// Fake of the handlers.SummaryProvider interface

type fakeSummaryProvider struct {
	calls       int
	summariesFn func(ctx context.Context, userID int64) ([]category.Summary, error)
}

func (f *fakeSummaryProvider) CategorySummaries(ctx context.Context, userID int64) ([]category.Summary, error) {
	f.calls++
	if f.summariesFn != nil {
		return f.summariesFn(ctx, userID)
	}
	return []category.Summary{}, nil
}

func TestCreateCategoryHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeCategoriesRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"name":"Groceries","icon":"cart","color":"#00ff00"}`,
			repoSetUp: func(f *fakeCategoriesRepo) {
				f.createFn = func(ctx context.Context, userID int64, req category.CreateCategoryRequest) (category.Category, error) {
					return category.Category{ID: 1, UserID: userID, Name: req.Name}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_name",
			body:           `{"icon":"cart"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"name":"Groceries"}`,
			repoSetUp: func(f *fakeCategoriesRepo) {
				f.createFn = func(ctx context.Context, userID int64, req category.CreateCategoryRequest) (category.Category, error) {
					return category.Category{}, errors.New("store blew up")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCategoriesRepo{}
			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewCategoriesHandler(repo, &fakeSummaryProvider{}, nil, 0)
			r := setupAuthedRouter(http.MethodPost, "/api/categories", 1, h.Create)

			w := doJSON(r, http.MethodPost, "/api/categories", tt.body)
			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateCategoryHandler(t *testing.T) {
	repo := &fakeCategoriesRepo{
		updateFn: func(ctx context.Context, userID, id int64, req category.UpdateCategoryRequest) (category.Category, error) {
			if id == 404 {
				return category.Category{}, category.ErrNotFound
			}
			return category.Category{ID: id, UserID: userID, Name: "Food"}, nil
		},
	}

	h := handlers.NewCategoriesHandler(repo, &fakeSummaryProvider{}, nil, 0)
	r := setupAuthedRouter(http.MethodPut, "/api/categories/:id", 1, h.Update)

	if w := doJSON(r, http.MethodPut, "/api/categories/2", `{"name":"Food"}`); w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodPut, "/api/categories/404", `{"name":"Food"}`); w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
	if w := doJSON(r, http.MethodPut, "/api/categories/zero", `{"name":"Food"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestCategorySummaryUsesCache(t *testing.T) {
	provider := &fakeSummaryProvider{
		summariesFn: func(ctx context.Context, userID int64) ([]category.Summary, error) {
			return []category.Summary{
				{Category: category.Category{ID: 1, UserID: userID, Name: "Groceries"}, Balance: "-45.00"},
			}, nil
		},
	}

	c := cache.NewMemory()
	h := handlers.NewCategoriesHandler(&fakeCategoriesRepo{}, provider, c, time.Minute)
	r := setupAuthedRouter(http.MethodGet, "/api/categories/summary", 1, h.Summary)

	first := doJSON(r, http.MethodGet, "/api/categories/summary", "")
	if first.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", first.Code, first.Body.String())
	}

	second := doJSON(r, http.MethodGet, "/api/categories/summary", "")
	if second.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", second.Code, second.Body.String())
	}

	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want 1 (second hit served from cache)", provider.calls)
	}
	if !strings.Contains(second.Body.String(), `"-45.00"`) {
		t.Fatalf("cached payload lost the balance: %s", second.Body.String())
	}
}

func TestDeleteCategoryHandler(t *testing.T) {
	repo := &fakeCategoriesRepo{
		deleteFn: func(ctx context.Context, userID, id int64) error {
			if id == 404 {
				return category.ErrNotFound
			}
			return nil
		},
	}

	h := handlers.NewCategoriesHandler(repo, &fakeSummaryProvider{}, nil, 0)
	r := setupAuthedRouter(http.MethodDelete, "/api/categories/:id", 1, h.Delete)

	if w := doJSON(r, http.MethodDelete, "/api/categories/2", ""); w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodDelete, "/api/categories/404", ""); w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}
