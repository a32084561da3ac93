// Package app wires the configured backends together. Optional backends
// (Redis, NATS, MongoDB) fall back to in-process implementations when their
// settings are empty.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/auth"
	"yatube/internal/cache"
	"yatube/internal/clock"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/feed"
	"yatube/internal/guard"
	"yatube/internal/media"
	"yatube/internal/messaging"
	"yatube/internal/store"
	"yatube/internal/web"
)

type App struct {
	Config config.Config
	Log    *slog.Logger
	Clock  clock.Clock
	Store  *store.Store
	Cache  cache.PageCache
	Media  media.Store
	Events messaging.Publisher
	Tokens *auth.Tokens

	closers []func()
}

// Open connects every configured backend.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Clock: clock.Real()}
	if err := a.open(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) open(ctx context.Context) error {
	cfg := a.Config

	db, err := database.Open(ctx, cfg.Database, a.Log)
	if err != nil {
		return err
	}
	a.onClose(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	a.Store = store.New(db, a.Clock)

	if cfg.Redis.Host != "" {
		client, err := cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.onClose(func() { client.Close() })
		a.Cache = cache.NewRedis(client, cfg.IndexCacheTTL)
		a.Log.Info("index cache in redis", "addr", cfg.Redis.Addr())
	} else {
		a.Cache = cache.NewMemory(a.Clock, cfg.IndexCacheTTL)
	}

	if cfg.NATS.Host != "" {
		conn, err := messaging.Connect(cfg.NATS)
		if err != nil {
			return err
		}
		a.onClose(conn.Close)
		a.Events = messaging.NewNATSPublisher(conn)
		a.Log.Info("publishing events to nats", "url", cfg.NATS.URL())
	} else {
		a.Events = messaging.Nop{}
	}

	if cfg.Mongo.URI != "" {
		client, err := media.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		a.onClose(func() { client.Disconnect(context.Background()) })
		files, err := media.NewGridFS(client.Database(cfg.Mongo.Database))
		if err != nil {
			return err
		}
		a.Media = files
	} else {
		a.Media = media.NewMemory()
	}

	a.Tokens = auth.NewTokens(cfg.JWTSecret, a.Clock)
	return nil
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Web builds the HTTP handler over the opened backends.
func (a *App) Web() (*web.Server, error) {
	srv, err := web.New(web.Options{
		Store:       a.Store,
		Composer:    feed.NewComposer(a.Store, a.Config.PageSize),
		Guard:       guard.New(a.Config.LoginURL),
		Cache:       a.Cache,
		Media:       a.Media,
		Events:      a.Events,
		Tokens:      a.Tokens,
		Logger:      a.Log,
		Clock:       a.Clock,
		CORSOrigins: a.Config.CORSOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("build web server: %w", err)
	}
	return srv, nil
}

// Close releases backends in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
