package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"smartWaiter/internal/config"
	menuusecase "smartWaiter/internal/modules/menu/application/usecase"
	menutransport "smartWaiter/internal/modules/menu/interface"
	orderusecase "smartWaiter/internal/modules/orders/application/usecase"
	ordertransport "smartWaiter/internal/modules/orders/interface"
	rtport "smartWaiter/internal/modules/realtime/application/port"
	rtusecase "smartWaiter/internal/modules/realtime/application/usecase"
	"smartWaiter/internal/modules/realtime/infrastructure"
	rttransport "smartWaiter/internal/modules/realtime/interface"
	robotapp "smartWaiter/internal/modules/robot/application"
	robothandler "smartWaiter/internal/modules/robot/application/handler"
	robottransport "smartWaiter/internal/modules/robot/interface"
	tableusecase "smartWaiter/internal/modules/tables/application/usecase"
	tabletransport "smartWaiter/internal/modules/tables/interface"
	"smartWaiter/internal/platform/broker"
	"smartWaiter/internal/platform/server"
	"smartWaiter/internal/platform/store"
	"smartWaiter/internal/platform/store/postgres"
	"smartWaiter/internal/platform/store/postgrest"
	"smartWaiter/internal/shared/auth"
	"smartWaiter/internal/shared/logging"
)

const (
	websocketBuffer = 32
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(cfg.Logging.Directory, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	if err := run(cfg, logger); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		logFile.Close()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer db.Close()

	hub := infrastructure.NewHub()
	broadcasters := []rtport.Broadcaster{hub}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := broker.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
		defer kafkaPublisher.Close()
		broadcasters = append(broadcasters, kafkaPublisher)
		slog.Info("kafka events enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.EventTopic))
	}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := broker.DialAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Warn("amqp publisher disabled", slog.Any("error", err))
		} else {
			defer amqpPublisher.Close()
			broadcasters = append(broadcasters, amqpPublisher)
			slog.Info("amqp events enabled", slog.String("exchange", cfg.AMQP.Exchange))
		}
	}
	events := rtusecase.NewBroadcastUseCase(broadcasters...)

	robot := robotapp.NewController(cfg.Robot.TransitDelay,
		robotapp.WithBroadcaster(events),
		robotapp.WithLogger(logger.With(slog.String("component", "robot"))),
	)
	tablesUC := tableusecase.NewTablesUseCase(db.Tables)
	menuUC := menuusecase.NewMenuUseCase(db.Menu)
	ordersUC := orderusecase.NewOrdersUseCase(db.Orders, db.Tables, robot, events, logger)

	e := server.New(logger, cfg.Logging.Level)
	e.Logger.SetOutput(log.Writer())

	robotHandler := robottransport.NewHandler(robot)
	tabletransport.NewHandler(tablesUC).Register(e.Group("/tables"))
	menutransport.NewHandler(menuUC).Register(e.Group("/menu"))
	ordertransport.NewHandler(ordersUC).Register(e.Group("/orders"))
	robotHandler.Register(e.Group("/robot"))
	e.GET("/ws/robot", rttransport.NewWebsocketHandler(hub, robotHandler.WebsocketOptions(websocketBuffer)))

	registry := infrastructure.NewHandlerRegistry()
	registry.Register(robothandler.NewCommandStreamHandler(cfg.Kafka.CommandTopic, robot, events, logger))

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("http server listening", slog.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return broker.RunKafkaConsumers(groupCtx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func openStore(ctx context.Context, cfg config.StoreConfig) (*store.Store, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		openCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		db, err := postgres.Open(openCtx, cfg.DatabaseURL, cfg.Migrate)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		slog.Info("store ready", slog.String("driver", cfg.Driver), slog.Bool("migrated", cfg.Migrate))
		return db, nil
	default:
		claims, err := auth.NewKeyInspector().Inspect(cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("inspect store key: %w", err)
		}
		slog.Info("store ready", slog.String("driver", cfg.Driver), slog.String("url", cfg.URL), slog.String("role", claims.Role))
		return postgrest.Open(cfg.URL, cfg.APIKey, cfg.Timeout, nil), nil
	}
}
