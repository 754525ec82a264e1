package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legendatm/lingoflow/internal/config"
	"github.com/legendatm/lingoflow/internal/handler"
	"github.com/legendatm/lingoflow/internal/repository/postgres"
	"github.com/legendatm/lingoflow/internal/scheduler"
	"github.com/legendatm/lingoflow/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting LingoFlow Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	cardRepo := postgres.NewCardRepo(db)

	// Scheduling parameters
	params := scheduler.DefaultParams()
	params.MaxIntervalDays = cfg.Scheduler.MaxIntervalDays

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.BotPassword)
	cardService := service.NewCardService(cardRepo)
	reviewService := service.NewReviewService(cardRepo, params, logger)
	statsService := service.NewStatsService(cardRepo, params, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, authService, cardService, reviewService, statsService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start reminder job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runReminderJob(ctx, bot, statsService, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runReminderJob sends a daily reminder to users with due cards
func runReminderJob(ctx context.Context, bot *tele.Bot, statsService *service.StatsService, logger *zap.Logger) {
	// Send one digest at startup
	sendReminders(bot, statsService, logger)

	// Then run every 24 hours
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled reminder digest")
			sendReminders(bot, statsService, logger)
		}
	}
}

// sendReminders notifies every user who has cards waiting for review
func sendReminders(bot *tele.Bot, statsService *service.StatsService, logger *zap.Logger) {
	counts, err := statsService.DueDigest(time.Now())
	if err != nil {
		logger.Error("Failed to build reminder digest", zap.Error(err))
		return
	}

	for _, c := range counts {
		msg := fmt.Sprintf("📚 你有 %d 个单词等待复习，发送 /study 开始吧！", c.DueCards)
		if _, err := bot.Send(&tele.User{ID: c.UserID}, msg); err != nil {
			logger.Warn("Failed to send reminder",
				zap.Int64("user_id", c.UserID),
				zap.Error(err),
			)
		}
	}
}
