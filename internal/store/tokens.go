package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/utils"
)

// ErrInvalidToken is returned for unknown, revoked or expired refresh tokens.
var ErrInvalidToken = errors.New("store: invalid refresh token")

type refreshRecord struct {
	UserID    uint64     `json:"userId"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// Tokens keeps refresh token hashes in the local store when no remote
// database is configured.  It has the same method set as the MySQL
// token repository.
type Tokens struct {
	kv  KV
	now func() time.Time
}

func NewTokens(kv KV) *Tokens { return &Tokens{kv: kv, now: time.Now} }

func (t *Tokens) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return setJSON(ctx, t.kv, keyRefreshPrefix+tokenHash, refreshRecord{UserID: userID, ExpiresAt: exp.UTC()})
}

func (t *Tokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var rec refreshRecord
	if err := getJSON(ctx, t.kv, keyRefreshPrefix+tokenHash, &rec); err != nil {
		if errors.Is(err, ErrMiss) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}
	if rec.RevokedAt != nil || t.now().UTC().After(rec.ExpiresAt) {
		return 0, ErrInvalidToken
	}
	return rec.UserID, nil
}

func (t *Tokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	var rec refreshRecord
	if err := getJSON(ctx, t.kv, keyRefreshPrefix+tokenHash, &rec); err != nil {
		if errors.Is(err, ErrMiss) {
			return nil
		}
		return err
	}
	if rec.RevokedAt != nil {
		return nil
	}
	now := t.now().UTC()
	rec.RevokedAt = &now
	return setJSON(ctx, t.kv, keyRefreshPrefix+tokenHash, rec)
}

// RevokeAllForUser is a no-op: the KV backends cannot enumerate keys, and
// local tokens only belong to the single env administrator.
func (t *Tokens) RevokeAllForUser(context.Context, uint64) error { return nil }

// EnvUsers serves the single administrator configured through the
// environment when no remote database is available.
type EnvUsers struct {
	admin model.User
}

// EnvAdminID is the id issued to the environment administrator.
const EnvAdminID uint64 = 1

// NewEnvUsers hashes password with the given bcrypt cost.  An empty email
// yields a store that never finds anyone.
func NewEnvUsers(email, password string, cost int) (*EnvUsers, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return &EnvUsers{}, nil
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &EnvUsers{admin: model.User{
		ID:           EnvAdminID,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}, nil
}

func (u *EnvUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if u.admin.Email == "" || email != u.admin.Email {
		return model.User{}, ErrNotFound
	}
	return u.admin, nil
}

func (u *EnvUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u.admin.Email == "" || id != u.admin.ID {
		return model.User{}, ErrNotFound
	}
	return u.admin, nil
}
