package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/auth"
	"github.com/nantkhun/fintracker/internal/domain/user"
	"github.com/nantkhun/fintracker/internal/http/handlers"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
	"github.com/nantkhun/fintracker/internal/security"
)

// Make sure Gin does not spam the console during the tests

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementation of the handlers.UserStore interface

type fakeUsersRepo struct {
	createFn     func(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id int64) (user.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req, passwordHash)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func testJWT() *auth.Manager {
	return auth.NewManager("test-secret-key", time.Hour)
}

// small helper which mounts one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// mounts an authed handler behind a stub identity

func setupAuthedRouter(method, path string, userID int64, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		middlewares.SetUserContext(c, &auth.Claims{UserID: userID, Email: "alice@example.com", Name: "Alice"})
		h(c)
	})

	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"name":"Alice","email":"alice@example.com","password":"supersecret"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error) {
					if passwordHash == req.Password {
						return user.User{}, errors.New("plaintext password reached the repo")
					}
					return user.User{
						ID:           1,
						Name:         req.Name,
						Email:        req.Email,
						PasswordHash: passwordHash,
						CreatedAt:    now,
						UpdatedAt:    now,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "validation_error",
			body:           `{"name":"Alice","email":"not-an-email","password":"short"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_email",
			body: `{"name":"Alice","email":"alice@example.com","password":"supersecret"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "repo_error",
			body: `{"name":"Alice","email":"alice@example.com","password":"supersecret"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error) {
					return user.User{}, errors.New("store blew up")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}
			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, testJWT())
			r := setupRouter(http.MethodPost, "/api/users/register", h.Register)

			w := doJSON(r, http.MethodPost, "/api/users/register", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				var resp struct {
					Token string `json:"token"`
					User  struct {
						Email string `json:"email"`
					} `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Token == "" {
					t.Fatal("expected a token in the response")
				}
				if resp.User.Email != "alice@example.com" {
					t.Fatalf("got user email %q", resp.User.Email)
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("supersecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	stored := user.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"alice@example.com","password":"supersecret"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "wrong_password",
			body: `{"email":"alice@example.com","password":"wrongwrong"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown_email",
			body:           `{"email":"nobody@example.com","password":"supersecret"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "validation_error",
			body:           `{"email":"alice@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}
			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, testJWT())
			r := setupRouter(http.MethodPost, "/api/users/login", h.Login)

			w := doJSON(r, http.MethodPost, "/api/users/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestMeHandler(t *testing.T) {
	repo := &fakeUsersRepo{
		getByIDFn: func(ctx context.Context, id int64) (user.User, error) {
			if id != 7 {
				return user.User{}, user.ErrNotFound
			}
			return user.User{ID: 7, Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}, nil
		},
	}

	h := handlers.NewAuthHandler(repo, testJWT())
	r := setupAuthedRouter(http.MethodGet, "/api/users/me", 7, h.Me)

	w := doJSON(r, http.MethodGet, "/api/users/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	// the stored hash must not leak through the profile
	if bytes.Contains(w.Body.Bytes(), []byte("hash")) {
		t.Fatalf("password leaked into response: %s", w.Body.String())
	}

	// unknown identity
	r = setupAuthedRouter(http.MethodGet, "/api/users/me", 99, h.Me)
	w = doJSON(r, http.MethodGet, "/api/users/me", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}
