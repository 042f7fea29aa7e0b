package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/app/notify"
	"restaurant-pos/internal/app/order"
	"restaurant-pos/internal/common/config"
	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/repository/memory"
	"restaurant-pos/internal/repository/postgres"
)

const modes = "order-service | notification-subscriber | migrate"

func main() {
	mode := flag.String("mode", "", modes)
	cfgPath := flag.String("config", "", "path to YAML config (default: config.yaml if present)")
	port := flag.Int("port", 0, "order-service: http port (overrides config)")
	maxConc := flag.Int("max-concurrent", 0, "order-service: max concurrent requests (overrides config)")
	store := flag.String("store", "", "order-service: postgres | memory (overrides config)")
	prefetch := flag.Int("prefetch", 10, "notification-subscriber: RabbitMQ prefetch")
	flag.Parse()

	lg := logger.New("bootstrap")
	defer lg.Sync()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(2)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if *maxConc != 0 {
		cfg.HTTP.MaxConcurrent = *maxConc
	}
	if *store != "" {
		cfg.Store.Driver = *store
	}
	if err := cfg.Validate(); err != nil {
		lg.Error("config_invalid", err, nil)
		os.Exit(2)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		lg.Error("config_invalid", err, nil)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "order-service":
		err = runOrderService(ctx, cfg, logger.New("order-service"))
	case "notification-subscriber":
		err = runSubscriber(ctx, cfg, *prefetch, logger.New("notification-subscriber"))
	case "migrate":
		err = runMigrate(ctx, cfg, logger.New("migrate"))
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: "+modes)
		os.Exit(2)
	}
	if err != nil {
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		os.Exit(1)
	}
}

func loadConfig(path string) (config.App, error) {
	if path == "" {
		found, err := config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.App{}, err
		}
		path = found
	}
	return config.Load(path)
}

func runOrderService(ctx context.Context, cfg config.App, lg *logger.Logger) error {
	perUnit, err := cfg.Loyalty.PerUnit()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer store.Close()

	var pub domain.Publisher = mq.NewLogPublisher(lg.Named("events"))
	if cfg.Rabbit.Enabled {
		client, err := mq.Dial(cfg.Rabbit)
		if err != nil {
			return fmt.Errorf("rabbitmq connect: %w", err)
		}
		defer client.Close()
		if err := client.DeclareAll(); err != nil {
			return fmt.Errorf("declare topology: %w", err)
		}
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.Rabbit.Host, "port": cfg.Rabbit.Port})
		pub = mq.NewEventPublisher(client, "order-service")
	}

	return order.Run(ctx, cfg.HTTP.Port, order.Deps{
		Store:     store,
		Publisher: pub,
		Points:    pricing.PointsPolicy{PerUnit: perUnit},
		Logger:    lg,
	}, httpx.Options{MaxConcurrent: cfg.HTTP.MaxConcurrent, CORSOrigins: cfg.HTTP.CORSOrigins})
}

func openStore(ctx context.Context, cfg config.App, lg *logger.Logger) (repository.Store, error) {
	if cfg.Store.Driver == "memory" {
		lg.Info("store_selected", map[string]any{"driver": "memory"})
		return memory.New(), nil
	}
	conn, err := db.Connect(ctx, cfg.Database, lg)
	if err != nil {
		return nil, err
	}
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Name})
	if cfg.Database.Migrate {
		if err := conn.Migrate(ctx, lg); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return postgres.New(conn), nil
}

func runSubscriber(ctx context.Context, cfg config.App, prefetch int, lg *logger.Logger) error {
	client, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer client.Close()
	return notify.Run(ctx, client, prefetch, lg)
}

func runMigrate(ctx context.Context, cfg config.App, lg *logger.Logger) error {
	conn, err := db.Connect(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Migrate(ctx, lg)
}
