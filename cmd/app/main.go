package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering/cmd"
	httpin "catering/internal/adapters/in/http"
	"catering/internal/adapters/in/worker"
	"catering/internal/adapters/out/postgres"
	"catering/internal/adapters/out/rabbitmq"
	"catering/internal/core/ports"
	"catering/internal/tasks"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := getConfigs()
	logger := newLogger(configs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	defer redisClient.Close()
	if err = redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}

	catalog, err := cmd.ProviderCatalog(configs)
	if err != nil {
		log.Fatalf("Error loading provider catalog: %v", err)
	}

	dispatcher := tasks.NewDispatcher(logger)
	queue, runQueue, closeQueue := startTaskQueue(configs, dispatcher, logger)
	defer closeQueue()

	app := cmd.NewCompositionRoot(configs, catalog, gormDB, redisClient, queue, logger)
	app.CreateWorkerHandlers().Register(dispatcher)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	validator, err := httpin.NewSchemaValidator(ctx)
	if err != nil {
		log.Fatalf("Error loading request schemas: %v", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return runQueue(ctx) })
	group.Go(func() error { return startWebServer(ctx, app.CreateHTTPServer(validator), configs.HTTPPort) })

	if err = group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service stopped with error", "error", err)
		return
	}
	logger.Info("service stopped")
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Error reading configuration: %v", err)
	}
	return config
}

func newLogger(configs cmd.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     configs.LogLevel,
		AddSource: configs.LogLevel == slog.LevelDebug,
	}

	var handler slog.Handler
	if configs.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// startTaskQueue picks RabbitMQ when configured and the in-process runner
// otherwise. run blocks until ctx is done.
func startTaskQueue(
	configs cmd.Config,
	dispatcher *tasks.Dispatcher,
	logger *slog.Logger,
) (queue ports.TaskQueue, run func(ctx context.Context) error, closeFn func()) {
	if configs.RabbitMQURL == "" {
		runner := tasks.NewRunner(dispatcher, tasks.RunnerConfig{
			WorkersPerLane: configs.WorkersPerLane,
			MaxConcurrent:  configs.MaxConcurrentPolls,
			Logger:         logger,
		})
		run = func(ctx context.Context) error {
			runner.Start(ctx)
			<-ctx.Done()
			return runner.Stop()
		}
		return runner, run, func() {}
	}

	conn, err := rabbitmq.NewConnection(configs.RabbitMQURL, logger)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	if err = rabbitmq.SetupTopology(conn); err != nil {
		log.Fatalf("Error declaring RabbitMQ topology: %v", err)
	}

	run = func(ctx context.Context) error {
		group, ctx := errgroup.WithContext(ctx)
		for _, lane := range tasks.Lanes() {
			consumer := rabbitmq.NewConsumer(conn, logger, rabbitmq.ConsumerConfig{
				Lane:      lane,
				Handler:   dispatcher.Dispatch,
				Workers:   configs.WorkersPerLane,
				Permanent: worker.Permanent,
			})
			group.Go(func() error { return consumer.Run(ctx) })
		}
		return group.Wait()
	}
	closeFn = func() {
		if err := conn.Close(); err != nil {
			logger.Warn("failed to close RabbitMQ connection", "error", err)
		}
	}
	return rabbitmq.NewPublisher(conn, logger), run, closeFn
}

func startWebServer(ctx context.Context, server *httpin.Server, port string) error {
	e := echo.New()
	e.HideBanner = true
	server.RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
