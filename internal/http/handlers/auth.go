package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/auth"
	"github.com/nantkhun/fintracker/internal/domain/user"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
	"github.com/nantkhun/fintracker/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type AuthHandler struct {
	users UserStore
	jwt   *auth.Manager
}

func NewAuthHandler(users UserStore, jwt *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest
	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		RespondInternal(ctx, "Failed to register user")
		return
	}

	u, err := h.users.Create(ctx.Request.Context(), req, hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "A user with this email already exists.")
			return
		}
		RespondInternal(ctx, "Failed to register user")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Name)
	if err != nil {
		RespondInternal(ctx, "Failed to issue token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    u.Profile(),
		"token":   token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest
	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.users.GetByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		RespondInternal(ctx, "Failed to log in")
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Name)
	if err != nil {
		RespondInternal(ctx, "Failed to issue token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    u.Profile(),
		"token":   token,
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Failed to load user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u.Profile()})
}
