package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/CodeOrigin25/Mandi-Link/internal/api"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/service"
	mongodb "github.com/CodeOrigin25/Mandi-Link/internal/infrastructure/db/mongo"
	redisdb "github.com/CodeOrigin25/Mandi-Link/internal/infrastructure/db/redis"
	"github.com/CodeOrigin25/Mandi-Link/internal/infrastructure/localstore"
	"github.com/CodeOrigin25/Mandi-Link/internal/pkg/config"
	"github.com/CodeOrigin25/Mandi-Link/pkg/logger"

	_ "github.com/CodeOrigin25/Mandi-Link/docs"
)

// @title        Mandi-Link Session API
// @version      1.0
// @description  Session, identity, and presence management for the Mandi-Link marketplace.
// @BasePath     /
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	identity := mongodb.NewIdentityStore(db)
	if err := identity.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	profiles := mongodb.NewProfileRepository(db)
	presence := redisdb.NewPresenceRegistry(rdb)
	store := localstore.NewFileStore(cfg.SessionFile)

	sessions := service.NewSessionManager(identity, profiles, presence, store, log)
	sessions.Restore()
	gate := service.NewAccessGate(sessions)

	e := api.NewRouter(api.Deps{
		Sessions:  sessions,
		Presence:  presence,
		Gate:      gate,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
