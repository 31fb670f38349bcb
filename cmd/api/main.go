package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-math-solver/internal/cache"
	"github.com/noah-isme/gema-math-solver/internal/config"
	"github.com/noah-isme/gema-math-solver/internal/evaluator"
	"github.com/noah-isme/gema-math-solver/internal/handler"
	"github.com/noah-isme/gema-math-solver/internal/middleware"
	"github.com/noah-isme/gema-math-solver/internal/render"
	"github.com/noah-isme/gema-math-solver/internal/router"
	"github.com/noah-isme/gema-math-solver/internal/service"
	"github.com/noah-isme/gema-math-solver/web"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	opts := service.SolverOptions{EvalTimeout: cfg.EvalTimeout}

	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = cache.ConnectRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("solution cache disabled")
		} else {
			opts.Cache = cache.NewRedisSolutionCache(redisClient, cfg.CacheTTL)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	solverService := service.NewSolverService(evaluator.NewGovaluate(logger), opts, logger)
	solverHandler := handler.NewSolverHandler(solverService, render.New(), validate, cfg.ProblemMaxLength, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SolverHandler: solverHandler,
		Page:          web.Handler(),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("starting math solver")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
