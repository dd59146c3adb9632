package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/middleware"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/repository"
	"github.com/marlett/reservations/internal/store"
	"github.com/marlett/reservations/internal/utils"
)

// UserStore looks up administrator accounts.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore keeps hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// TokenSettings are the signing parameters of the auth endpoints.
type TokenSettings struct {
	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
}

type AuthHandler struct {
	log    *slog.Logger
	cfg    TokenSettings
	users  UserStore
	tokens TokenStore
}

func NewAuthHandler(log *slog.Logger, cfg TokenSettings, users UserStore, tokens TokenStore) *AuthHandler {
	return &AuthHandler{log: log, cfg: cfg, users: users, tokens: tokens}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func isMissingUser(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, store.ErrNotFound)
}

func isInvalidToken(err error) bool {
	return errors.Is(err, repository.ErrInvalidToken) || errors.Is(err, store.ErrInvalidToken)
}

// issue creates and stores a fresh token pair for u.
func (h *AuthHandler) issue(ctx context.Context, u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.cfg.Secret, u.ID, u.Role, h.cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userPart{ID: u.ID, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}

// Login verifies the administrator credentials and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.users.GetByEmail(ctx, email)
	if isMissingUser(err) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return fail(c, h.log, err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// refreshUser validates the refresh token in the body and loads its owner.
// When ok is false the response has already been written and err is the
// result of writing it.
func (h *AuthHandler) refreshUser(c echo.Context, ctx context.Context) (u model.User, hash string, ok bool, err error) {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return u, "", false, c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash = utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	userID, err := h.tokens.ValidateRefresh(ctx, hash)
	if isInvalidToken(err) {
		return u, "", false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return u, "", false, fail(c, h.log, err)
	}
	u, err = h.users.GetByID(ctx, userID)
	if isMissingUser(err) {
		return u, "", false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return u, "", false, fail(c, h.log, err)
	}
	return u, hash, true, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	u, hash, ok, err := h.refreshUser(c, ctx)
	if !ok {
		return err
	}
	if err := h.tokens.RevokeByHash(ctx, hash); err != nil {
		return fail(c, h.log, err)
	}
	resp, err := h.issue(ctx, u)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token and keeps the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	u, _, ok, err := h.refreshUser(c, ctx)
	if !ok {
		return err
	}
	access, err := utils.NewAccessToken(h.cfg.Secret, u.ID, u.Role, h.cfg.AccessTTLMin)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token in the body, or every session of the
// bearer when no refresh token is given.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := withTimeout(c)
	defer cancel()

	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.tokens.ValidateRefresh(ctx, hash); err != nil {
			if isInvalidToken(err) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
			}
			return fail(c, h.log, err)
		}
		if err := h.tokens.RevokeByHash(ctx, hash); err != nil {
			return fail(c, h.log, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		claims, err := utils.ParseAccessToken(h.cfg.Secret, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		uid, _ := claims.UserID()
		if err := h.tokens.RevokeAllForUser(ctx, uid); err != nil {
			return fail(c, h.log, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the authenticated administrator.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.users.GetByID(ctx, middleware.UserID(c))
	if isMissingUser(err) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Role: u.Role})
}
