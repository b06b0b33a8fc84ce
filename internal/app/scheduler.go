package app

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"tutorhub/internal/service"
)

// Scheduler управляет фоновыми задачами жизненного цикла уроков.
// Вместо таймеров в памяти - периодический скан дедлайнов в базе, поэтому
// рестарт процесса не теряет напоминания и автозавершения.
type Scheduler struct {
	lessonService *service.LessonService
	interval      time.Duration
	logger        *zap.Logger
	stopChan      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(lessonService *service.LessonService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		lessonService: lessonService,
		interval:      interval,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting lifecycle scheduler",
		zap.Duration("interval", s.interval))

	go s.runLifecycleTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping lifecycle scheduler")
	close(s.stopChan)
}

// runLifecycleTask периодически прогоняет дедлайны напоминаний и автозавершений
func (s *Scheduler) runLifecycleTask(ctx context.Context) {
	// Первый прогон сразу при старте: подбираем дедлайны, накопившиеся пока
	// процесс не работал
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("Lifecycle task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Lifecycle task cancelled")
			return
		}
	}
}

// tick обрабатывает все дедлайны, наступившие к текущему моменту.
// Обе операции идемпотентны, повторный прогон безопасен.
func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now()

	if err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.lessonService.ProcessDueReminders(ctx, now)
	}); err != nil {
		s.logger.Error("Failed to process due reminders", zap.Error(err))
	}

	if err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.lessonService.ProcessAutoCompletions(ctx, now)
	}); err != nil {
		s.logger.Error("Failed to process auto-completions", zap.Error(err))
	}
}

// withRetry повторяет скан при временном сбое базы
func (s *Scheduler) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
