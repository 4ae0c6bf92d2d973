package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Konstantin212/countOnMe/internal/config"
	"github.com/Konstantin212/countOnMe/internal/database"
	"github.com/Konstantin212/countOnMe/internal/handler"
	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/router"
	"github.com/Konstantin212/countOnMe/internal/service"
	mysqlstore "github.com/Konstantin212/countOnMe/internal/store/mysql"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, falling back to in-process rate limiter")
	}

	st := mysqlstore.New(db)
	identity := service.NewIdentity(st, cfg.TokenPepper, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, router.Deps{
		Identity:  identity,
		Devices:   handler.NewDeviceHandler(identity),
		Products:  handler.NewProductHandler(service.NewProducts(st)),
		Portions:  handler.NewPortionHandler(service.NewPortions(st)),
		Entries:   handler.NewFoodEntryHandler(service.NewFoodEntries(st)),
		Weights:   handler.NewBodyWeightHandler(service.NewBodyWeights(st)),
		Goals:     handler.NewGoalHandler(service.NewGoals(st)),
		Sync:      handler.NewSyncHandler(service.NewSync(st)),
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
	})

	go func() {
		log.Info("listening", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
