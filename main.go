package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"tokobuku/internal/config"
	"tokobuku/internal/database"
	"tokobuku/internal/models"
	"tokobuku/internal/repositories"
	"tokobuku/internal/server"
	"tokobuku/internal/services"
	"tokobuku/pkg/logger"
	"tokobuku/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	lg, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("Server stopped", zap.Error(err))
	}
}

// application is the assembled service and the resources it owns.
type application struct {
	app   *fiber.App
	store *database.Store
	mq    *rabbitmq.Client // nil when the event bus is disabled
}

// newApp opens the store and the optional event bus and builds the HTTP app.
func newApp(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*application, error) {
	store, err := database.Open(ctx, cfg.Store, lg)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	lg.Info("Store ready", zap.String("driver", store.Driver))

	if cfg.SeedItems {
		if err := seedItems(ctx, store.Items, lg); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
	}

	var (
		mq        *rabbitmq.Client
		publisher services.EventPublisher
	)
	if cfg.RabbitMQ.URL != "" {
		mq, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		}, lg.Named("rabbitmq"))
		if err != nil {
			_ = store.Close(ctx)
			return nil, errors.Wrap(err, "init RabbitMQ")
		}
		publisher = mq
	} else {
		lg.Info("RABBITMQ_URL not set, order events disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := server.New(server.Options{
		Config:    cfg,
		Store:     store,
		Publisher: publisher,
		Logger:    lg,
		Registry:  reg,
	})

	return &application{app: app, store: store, mq: mq}, nil
}

// Close shuts the HTTP server down and releases the store and event bus.
func (a *application) Close(ctx context.Context) error {
	err := a.app.ShutdownWithContext(ctx)
	if a.mq != nil {
		if closeErr := a.mq.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if closeErr := a.store.Close(ctx); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, lg)
	if err != nil {
		return err
	}

	// --- Start RabbitMQ Consumer ---
	if a.mq != nil {
		if err := a.mq.ConsumeOrderEvents(ctx, logOrderEvent(lg.Named("events"))); err != nil {
			lg.Error("Failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	// --- Start HTTP Server ---
	listenErr := make(chan error, 1)
	go func() {
		lg.Info("Starting server",
			zap.String("addr", cfg.Addr()),
			zap.String("env", cfg.Env),
		)
		listenErr <- a.app.Listen(cfg.Addr())
	}()

	select {
	case err := <-listenErr:
		_ = a.Close(context.Background())
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	lg.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Close(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	lg.Info("Server gracefully stopped")
	return nil
}

// logOrderEvent is the consumer side of the event bus: it records each
// order event.
func logOrderEvent(lg *zap.Logger) rabbitmq.EventHandler {
	return func(_ context.Context, e models.OrderEvent) error {
		lg.Info("Order event",
			zap.String("type", e.Type),
			zap.String("order_id", e.OrderID),
			zap.String("user_id", e.UserID),
			zap.Float64("total_price", e.TotalPrice),
			zap.Time("occurred_at", e.OccurredAt),
		)
		return nil
	}
}

// seedItems fills an empty catalog with a few books.
func seedItems(ctx context.Context, repo repositories.ItemRepository, lg *zap.Logger) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return errors.Wrap(err, "list items for seeding")
	}
	if len(existing) > 0 {
		lg.Info("Catalog not empty, skipping seed", zap.Int("items", len(existing)))
		return nil
	}

	items := []models.Item{
		{Name: "Laskar Pelangi", Author: "Andrea Hirata", Genre: "Novel", Description: "Ten children and their school on Belitung", Price: 89000, CountInStock: 12},
		{Name: "Bumi Manusia", Author: "Pramoedya Ananta Toer", Genre: "Historical fiction", Description: "The first book of the Buru Quartet", Price: 132000, CountInStock: 5},
		{Name: "Cantik Itu Luka", Author: "Eka Kurniawan", Genre: "Novel", Description: "A family saga across a century", Price: 115000, CountInStock: 0},
	}
	for i := range items {
		items[i].Image = services.SampleImage
		items[i].Reviews = []models.Review{}
		if err := repo.Create(ctx, &items[i]); err != nil {
			return errors.Wrapf(err, "seed item %q", items[i].Name)
		}
		lg.Debug("Seeded item", zap.String("name", items[i].Name), zap.String("id", items[i].ID))
	}
	lg.Info("Seeded catalog", zap.Int("items", len(items)))
	return nil
}
