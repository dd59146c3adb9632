package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marlett/reservations/internal/config"
	"github.com/marlett/reservations/internal/database"
	"github.com/marlett/reservations/internal/handler"
	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/repository"
	"github.com/marlett/reservations/internal/service"
	"github.com/marlett/reservations/internal/store"
)

// memcacheLocalTTL bounds how stale the in-process copy in front of
// memcached may get.
const memcacheLocalTTL = 2 * time.Second

// stores holds the remote (MySQL) and local (KV) persistence layers.  The
// remote fields are nil when no database is configured.
type stores struct {
	remoteReservations service.RemoteReservations
	remoteSettings     service.RemoteSettings
	localReservations  *store.Reservations
	localSettings      *store.Settings
	users              handler.UserStore
	tokens             handler.TokenStore
	pingers            map[string]handler.Pinger
	close              func()
}

func openStores(log *slog.Logger, cfg config.Config, rdb *redis.Client) (*stores, error) {
	const op = "main.openStores"
	log = log.With(slog.String("op", op))

	st := &stores{pingers: map[string]handler.Pinger{}, close: func() {}}

	kv := localKV(log, cfg, rdb, st)
	st.localReservations = store.NewReservations(kv)
	st.localSettings = store.NewSettings(kv)

	if rdb != nil {
		st.pingers["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if !cfg.RemoteEnabled() {
		log.Info("no database configured, running on the local store")
		return st, localAuth(cfg, st, kv)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Warn("database unavailable, running on the local store", sl.Err(err))
		return st, localAuth(cfg, st, kv)
	}
	prev := st.close
	st.close = func() { _ = db.Close(); prev() }
	st.pingers["mysql"] = db.PingContext

	st.remoteReservations = repository.NewReservationRepo(db)
	st.remoteSettings = repository.NewSettingsRepo(db)
	users := repository.NewUserRepo(db)
	st.users = users
	st.tokens = repository.NewTokenRepo(db)

	if err := seedAdmin(log, cfg, users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// localKV picks the local store driver.  Redis falls back to memory when the
// server is unreachable.
func localKV(log *slog.Logger, cfg config.Config, rdb *redis.Client, st *stores) store.KV {
	switch cfg.LocalStore {
	case "redis":
		if rdb != nil {
			return store.NewRedisKV(rdb, "")
		}
		log.Warn("redis unavailable, local store kept in memory")
	case "memcached":
		mc := store.NewMemcacheKV(memcacheLocalTTL, cfg.MemcachedAddr)
		if err := mc.Ping(); err != nil {
			log.Warn("memcached unavailable", slog.String("addr", cfg.MemcachedAddr), sl.Err(err))
		}
		st.pingers["memcached"] = func(context.Context) error { return mc.Ping() }
		return mc
	}
	mem := store.NewMemoryKV(10_000)
	prev := st.close
	st.close = func() { mem.Stop(); prev() }
	return mem
}

// localAuth serves the administrator from the environment and keeps refresh
// tokens in the local store.
func localAuth(cfg config.Config, st *stores, kv store.KV) error {
	users, err := store.NewEnvUsers(cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("main.localAuth: %w", err)
	}
	st.users = users
	st.tokens = store.NewTokens(kv)
	return nil
}

func seedAdmin(log *slog.Logger, cfg config.Config, users *repository.UserRepo) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if created {
		log.Info("administrator seeded", slog.String("email", cfg.AdminEmail))
	}
	return nil
}
