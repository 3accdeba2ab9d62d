// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Engaged content server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/cache"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/config"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/database"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/handlers"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/router"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/session"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + public feed cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	feedCache := cache.NewFeedCache(valkeyClient, cfg.FeedCacheTTL)

	// Data stores.
	userStore := store.NewUserStore(db)
	typeStore := store.NewContentTypeStore(db)
	postStore := store.NewPostStore(db)
	draftStore := store.NewDraftStore(db)
	seriesStore := store.NewSeriesStore(db)

	// Core services.
	registry := core.NewRegistry(typeStore)
	postService := core.NewPosts(db, postStore, seriesStore, registry)
	draftService := core.NewDrafts(db, draftStore, postStore, registry, postService)
	seriesService := core.NewSeries(seriesStore, postStore)

	// Handler groups.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	typeHandlers := handlers.NewTypes(registry)
	draftHandlers := handlers.NewDrafts(draftService, feedCache, cfg)
	postHandlers := handlers.NewPosts(postService, feedCache)
	seriesHandlers := handlers.NewSeries(seriesService, feedCache)
	userHandlers := handlers.NewUsers(userStore)
	publicHandlers := handlers.NewPublic(postService, seriesService, feedCache)

	r := router.New(sessionStore, authHandlers, typeHandlers, draftHandlers, postHandlers, seriesHandlers, userHandlers, publicHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Background publisher: scheduled posts whose time has arrived go
	// live without a request touching them.
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	go runScheduledPublisher(publisherCtx, postService, feedCache, cfg.PublishInterval)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	stopPublisher()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// runScheduledPublisher ticks until the context is cancelled, publishing
// every scheduled post whose publish time has passed. The feed cache is
// invalidated whenever anything went live.
func runScheduledPublisher(ctx context.Context, posts *core.Posts, feed *cache.FeedCache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			published, err := posts.PublishDue(time.Now())
			if err != nil {
				slog.Error("scheduled publish sweep failed", "error", err)
				continue
			}
			if len(published) > 0 {
				feed.InvalidateAll(ctx)
			}
		}
	}
}
