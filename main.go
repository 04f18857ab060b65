package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"golang.org/x/sync/errgroup"

	"fanout-runner/config"
	"fanout-runner/handlers"
	"fanout-runner/logging"
	"fanout-runner/metrics"
	"fanout-runner/middleware"
	"fanout-runner/services"
	"fanout-runner/workers"

	_ "fanout-runner/docs"
)

const shutdownTimeout = 10 * time.Second

// @title Fan-out Runner API
// @version 1.0
// @description Local invoke surface for the fan-out barrier function
// @host localhost:8080
// @BasePath /api
func main() {
	cfg, envFile, err := config.Load()
	if err != nil {
		logging.NewDefaultLogger().Error("invalid configuration", err)
		os.Exit(1)
	}

	logger := logging.NewDefaultLogger()
	if level, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warn("falling back to info level", logging.Err(err))
	} else {
		logger = logger.WithLevel(level)
	}
	logger.Info("configuration loaded",
		logging.String("mode", cfg.Mode),
		logging.Bool("env_file", envFile),
	)

	xray.SetLogger(logging.NewXRayLogger(logger))

	m := metrics.New()
	runner := services.NewFanoutRunner(
		services.WithLogger(logger),
		services.WithMetrics(m),
	)

	switch cfg.Mode {
	case config.ModeLambda:
		svc := services.NewInvocationService(runner, nil)
		handlers.NewLambdaHandler(svc, logger).Start(cfg.ResponseFormat)
	case config.ModeServer:
		err = runServer(cfg, logger, m, runner)
	case config.ModeWorker:
		err = runWorker(cfg, logger, runner)
	}
	if err != nil {
		logger.Error("exited with error", err)
		os.Exit(1)
	}
}

func runServer(cfg config.Config, logger logging.Logger, m *metrics.Metrics, runner *services.FanoutRunner) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var queue services.InvocationQueue
	var redisService *services.RedisService
	if cfg.QueueEnabled {
		redisService = services.NewRedisService(cfg.RedisAddr())
		defer redisService.Close()
		if err := redisService.Ping(ctx); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr(), err)
		}
		queue = redisService
	}

	svc := services.NewInvocationService(runner, queue)
	invocationHandler := handlers.NewInvocationHandler(svc, logger)

	app := fiber.New(fiber.Config{
		AppName:               "fanout-runner",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.XRayMiddleware(cfg.XRaySegmentName))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "UP", "queue_enabled": svc.QueueEnabled()})
	})

	invocationHandler.Register(app.Group("/api"))

	g, gctx := errgroup.WithContext(ctx)

	if redisService != nil {
		worker := workers.NewQueueWorker(redisService, runner, logger,
			workers.WithSegmentName(cfg.XRaySegmentName+"-worker"))
		g.Go(func() error { return worker.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("server starting", logging.String("port", cfg.ServerPort))
		return app.Listen(":" + cfg.ServerPort)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runWorker(cfg config.Config, logger logging.Logger, runner *services.FanoutRunner) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisService := services.NewRedisService(cfg.RedisAddr())
	defer redisService.Close()

	if err := redisService.Ping(ctx); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr(), err)
	}
	logger.Info("connected to redis", logging.String("addr", cfg.RedisAddr()))

	worker := workers.NewQueueWorker(redisService, runner, logger,
		workers.WithSegmentName(cfg.XRaySegmentName+"-worker"))
	return worker.Run(ctx)
}
