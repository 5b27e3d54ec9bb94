package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lydiiiiia27/ups-delivery-system/config"
	"github.com/Lydiiiiia27/ups-delivery-system/engine"
	"github.com/Lydiiiiia27/ups-delivery-system/messaging"
	"github.com/Lydiiiiia27/ups-delivery-system/notify"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
	"github.com/Lydiiiiia27/ups-delivery-system/telemetry"
	"github.com/Lydiiiiia27/ups-delivery-system/tracking"
	"github.com/Lydiiiiia27/ups-delivery-system/world"
	"github.com/Lydiiiiia27/ups-delivery-system/www"
)

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Printf("upsbridge: tracing disabled: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownTracing(sctx)
	}()

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	log.Printf("upsbridge: database open (%s)", cfg.Database.Driver)

	// Partner response cache
	cache := responseCache(cfg.Redis)
	if rc, ok := cache.(interface{ Close() error }); ok {
		defer rc.Close()
	}

	// Tracking and partner notifications
	tr := tracking.New(db, tracking.Options{
		Retention:           cfg.Tracking.Retention,
		CleanupInterval:     cfg.Tracking.CleanupInterval,
		ProcessedMaxEntries: cfg.Tracking.ProcessedMaxEntries,
	})
	pc := cfg.Partner
	dispatcher := notify.NewDispatcher(notify.NewClient(pc.BaseURL, pc.Timeout), cache, tr, notify.Options{
		MaxAttempts: pc.MaxAttempts,
		RetryDelay:  pc.RetryDelay,
		Async:       pc.AsyncDispatch,
	})
	sweeper := notify.NewSweeper(dispatcher, tr, notify.SweeperOptions{
		Interval:             pc.RetrySweepInterval,
		MinAge:               pc.RetryMinAge,
		MaxAge:               pc.RetryMaxAge,
		CacheCleanupInterval: pc.CacheCleanupInterval,
		CacheMaxEntries:      pc.CacheMaxEntries,
	})
	log.Printf("upsbridge: partner notifications to %s", pc.BaseURL)

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		DB:         db,
		World:      world.NewConnector(cfg.World.DialTimeout, nil),
		Tracking:   tr,
		Dispatcher: dispatcher,
		Sweeper:    sweeper,
	})
	if err := eng.Start(ctx); err != nil {
		log.Printf("upsbridge: %v (will keep retrying)", err)
	}
	defer eng.Stop()

	// Event mirror
	if cfg.Messaging.Backend != "" {
		msgClient := messaging.NewClient(&cfg.Messaging)
		if err := msgClient.Connect(); err != nil {
			log.Printf("upsbridge: messaging connect failed (%v)", err)
		} else {
			log.Printf("upsbridge: messaging connected (%s)", cfg.Messaging.Backend)
		}
		defer msgClient.Close()

		drainer := messaging.NewOutboxDrainer(db, msgClient, cfg.Messaging.OutboxDrainInterval, cfg.Messaging.OutboxRetention, nil)
		drainer.Start()
		defer drainer.Stop()
	}

	// Web server
	handler, stopWeb := www.NewRouter(eng)
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{Addr: addr, Handler: handler}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("upsbridge: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	log.Printf("upsbridge: ready")
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		log.Printf("upsbridge: web server: %v", err)
	}

	log.Printf("upsbridge: shutting down...")
	stopWeb()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	log.Printf("upsbridge: stopped")
	return err
}

// responseCache uses Redis when it answers a ping and falls back to memory.
func responseCache(rc config.RedisConfig) notify.ResponseCache {
	if rc.Address == "" {
		return notify.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("upsbridge: redis not available (%v), caching responses in memory", err)
		client.Close()
		return notify.NewMemoryCache()
	}
	log.Printf("upsbridge: redis connected (%s)", rc.Address)
	return notify.NewRedisCache(client)
}
