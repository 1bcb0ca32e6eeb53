package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/fighterdemo/server/audit"
	"github.com/kasuganosora/fighterdemo/server/cache"
	"github.com/kasuganosora/fighterdemo/server/config"
	dbadapter "github.com/kasuganosora/fighterdemo/server/db"
	"github.com/kasuganosora/fighterdemo/server/model"
	"github.com/kasuganosora/fighterdemo/server/scheduler"
	"github.com/kasuganosora/fighterdemo/server/seed"
	"github.com/kasuganosora/fighterdemo/server/store"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flags: %v", err)
	}
	cfgPath, _ := flags.GetString("config")

	cfg, err := config.Load(cfgPath, flags)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	logger, err := newLogger(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Cache ----
	c, err := cache.NewCache(cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Audit ----
	auditSvc := audit.New(db, logger, audit.Options{
		Buffer:        cfg.Audit.Buffer,
		FlushInterval: cfg.Audit.FlushInterval,
	})

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	if cfg.Audit.Retention > 0 {
		sched.AddTicker("audit_prune", cfg.Audit.PruneInterval, func(ctx context.Context) {
			n, err := audit.Prune(ctx, db, cfg.Audit.Retention)
			if err != nil {
				logger.Error("audit prune failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Info("audit rows pruned", zap.Int64("rows", n))
			}
		})
	}

	fighters := store.NewFighterStore(db)
	seeder := seed.New(fighters, c, auditSvc, cfg.Seed.LockTTL, logger)

	// Seed before the listener opens so the first request sees the roster.
	if cfg.Seed.OnStart {
		if _, err := seeder.Run(context.Background(), "startup"); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := buildRouter(cfg, deps{store: fighters, seeder: seeder, audit: auditSvc, logger: logger})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	logger.Info("startup", zap.Int("pid", os.Getpid()), zap.Int("port", cfg.Server.Port))

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	sched.Stop()
	auditSvc.Stop(shutdownCtx)
	if err := c.Close(); err != nil {
		logger.Error("cache close", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("shutdown complete")
}

// newLogger builds a zap logger that writes to stdout.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	return cfg.Build()
}
