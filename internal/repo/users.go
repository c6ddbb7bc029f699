package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nantkhun/fintracker/internal/domain/user"
	"github.com/nantkhun/fintracker/internal/store"
)

type Users struct {
	mu    sync.RWMutex
	store store.Store
}

func NewUsers(st store.Store) *Users {
	return &Users{store: st}
}

// Create registers a user. Email addresses are unique across the
// partition; a duplicate surfaces as user.ErrEmailTaken.
func (r *Users) Create(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []user.User
	if err := r.store.Load(ctx, partitionUsers, &users); err != nil {
		return user.User{}, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, req.Email) {
			return user.User{}, user.ErrEmailTaken
		}
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           nextID(ids),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	users = append(users, u)
	if err := r.store.Save(ctx, partitionUsers, users); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []user.User
	if err := r.store.Load(ctx, partitionUsers, &users); err != nil {
		return user.User{}, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *Users) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []user.User
	if err := r.store.Load(ctx, partitionUsers, &users); err != nil {
		return user.User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}
