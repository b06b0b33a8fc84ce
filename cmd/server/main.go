package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tutorhub/internal/app"
	"tutorhub/internal/config"
	"tutorhub/internal/controller"
	"tutorhub/internal/notify"
	"tutorhub/internal/repository"
	"tutorhub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting booking engine",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	lessonRepo := repository.NewLessonRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)

	// Сервисы
	policy := service.PolicyFromConfig(cfg)
	notifier := notify.NewLogNotifier(logger)
	bookingService := service.NewBookingService(lessonRepo, teacherRepo, policy, logger)
	lessonService := service.NewLessonService(lessonRepo, teacherRepo, notifier, policy, logger)

	// Фоновый планировщик: напоминания и автозавершения
	scheduler := app.NewScheduler(lessonService, time.Duration(cfg.SchedulerIntervalSeconds)*time.Second, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP сервер
	bookingHandler := controller.NewBookingHandler(bookingService)
	lessonHandler := controller.NewLessonHandler(lessonService)
	router := controller.NewRouter(cfg.Environment, bookingHandler, lessonHandler)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("Booking engine started")

	// Ждём сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}
