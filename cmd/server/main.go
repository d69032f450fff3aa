package main // Entry point package

import (
	"context"   // startup and shutdown deadlines
	"errors"    // errors.Is for the server-closed sentinel
	"net/http"  // http.ErrServerClosed
	"os"        // exit codes
	"os/signal" // stop on SIGINT/SIGTERM
	"strings"   // log level parsing
	"syscall"   // SIGTERM
	"time"      // shutdown grace period

	"github.com/labstack/gommon/log" // leveled logger shared with echo

	"github.com/iliyamo/studentdev-hub/internal/config"  // config loader
	"github.com/iliyamo/studentdev-hub/internal/kvstore" // durable session and allow-list store
	"github.com/iliyamo/studentdev-hub/internal/router"  // router setup
	"github.com/iliyamo/studentdev-hub/internal/service" // activity event publisher
)

func main() {
	cfg := config.Load() // Load environment config
	lvl := logLevel(cfg.LogLevel)
	log.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Warn("redis unreachable: rate limiting and response cache disabled")
	}

	store, err := kvstore.Open(ctx, cfg, rdb)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.KVBackend, err)
	}
	defer store.Close()

	var pub service.Publisher = service.Nop{}
	if cfg.EventsEnabled {
		pub = service.AMQPPublisher{URL: cfg.RabbitURL}
	}

	app := router.New(router.Deps{
		Cfg:       cfg,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Store:     store,
		Redis:     rdb,
		Publisher: pub,
	})
	app.Echo.Logger.SetLevel(lvl)

	if len(cfg.AdminEmails) > 0 {
		list, err := app.Roles.SetAllowList(ctx, append(app.Roles.AllowList(ctx), cfg.AdminEmails...))
		if err != nil {
			log.Fatalf("seed admin allow-list: %v", err)
		}
		log.Infof("admin allow-list: %d entries", len(list))
	}

	addr := ":" + cfg.Port                                                        // Address string with port
	log.Infof("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.KVBackend) // Print startup info

	go func() {
		// Start HTTP server; log and exit if it fails
		if err := app.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(sctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	if err := app.Recorder.Close(sctx); err != nil { // flush activity events still in flight
		log.Errorf("shutdown: %v", err)
	}
}

func logLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
