package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/court_bot/internal/app"
	"github.com/Freeeeeet/court_bot/internal/config"
	"github.com/Freeeeeet/court_bot/internal/controller"
	"github.com/Freeeeeet/court_bot/internal/controller/handlers"
	"github.com/Freeeeeet/court_bot/internal/parser"
	"github.com/Freeeeeet/court_bot/internal/portal"
	"github.com/Freeeeeet/court_bot/internal/repository"
	"github.com/Freeeeeet/court_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("court_bot: %v", err)
	}
}

func run() error {
	var (
		envFile     string
		migrateOnly bool
	)

	flagSet := pflag.NewFlagSet("court_bot", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "path to .env file")
	flagSet.BoolVar(&migrateOnly, "migrate-only", false, "apply database migrations and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting court bot",
		zap.String("environment", cfg.Environment),
		zap.String("portal", cfg.PortalBaseURL),
		zap.String("task_store", cfg.TaskStore))

	if migrateOnly && cfg.TaskStore != config.TaskStorePostgres {
		return fmt.Errorf("--migrate-only requires TASK_STORE=%s", config.TaskStorePostgres)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openTaskStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if migrateOnly {
		logger.Info("Migrations done, exiting")
		return nil
	}

	client := portal.NewClient(portal.Options{
		BaseURL:    cfg.PortalBaseURL,
		CookieFile: cfg.CookieFile,
		Timeout:    cfg.HTTPTimeout,
		RPS:        cfg.PortalRPS,
	}, logger)

	catalogService := service.NewCatalogService(client, parser.New(), cfg.HorizonDays, cfg.Location, logger)
	availabilityService := service.NewAvailabilityService(client, logger)
	taskService := service.NewTaskService(store, cfg.AllowSyntheticBooking, logger)
	gridService := service.NewGridService(availabilityService, taskService, service.NewViewTracker(), cfg.AllowSyntheticBooking, logger)
	authService := service.NewAuthService(client, logger)

	botInstance, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(handlers.AccessMiddleware(cfg.IsChatAllowed, logger)),
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	botController := controller.NewBotController(botInstance, catalogService, gridService, taskService, authService, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	notifier := controller.NewNotifier(botInstance, cfg.AllowedChatIDs, botController.KnownChats, logger)
	watchService := service.NewWatchService(store, availabilityService, notifier, cfg.Location, logger)

	scheduler, err := app.NewScheduler(cfg.WatchCron, cfg.Location, watchService, logger)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	botController.Start(ctx)
	logger.Info("Bot stopped")
	return nil
}

// openTaskStore выбирает хранилище задач. Для postgres применяет миграции.
func openTaskStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.TaskStore, func(), error) {
	if cfg.TaskStore == config.TaskStoreFile {
		logger.Info("Using file task store", zap.String("path", cfg.TaskFile))
		return repository.NewTaskFileRepository(cfg.TaskFile, logger), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("Using postgres task store")
	return repository.NewTaskPgRepository(pool), pool.Close, nil
}
