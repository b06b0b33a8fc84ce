package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"tutorhub/internal/model"
	"tutorhub/internal/pricing"
)

type BookingService struct {
	lessons  LessonStore
	teachers TeacherStore
	policy   Policy
	logger   *zap.Logger
}

func NewBookingService(lessons LessonStore, teachers TeacherStore, policy Policy, logger *zap.Logger) *BookingService {
	return &BookingService{
		lessons:  lessons,
		teachers: teachers,
		policy:   policy,
		logger:   logger,
	}
}

// CalculateBookingPrice считает расчёт цены для текущего выбора студента.
// Вызывается на каждое изменение формы, поэтому только чтения и чистая математика.
func (s *BookingService) CalculateBookingPrice(ctx context.Context, studentID int64, selection model.BookingSelection) (model.PriceQuote, error) {
	// Учитель ещё не выбран - возвращаем нулевой расчёт-заглушку, не ошибку
	if selection.TeacherID == 0 {
		return model.PriceQuote{}, nil
	}

	// Пробная цена только для одиночных уроков, пакеты не бывают пробными
	if selection.LessonType == model.LessonTypeSingle {
		history, err := s.studentHistory(ctx, studentID)
		if err != nil {
			return model.PriceQuote{}, err
		}
		if pricing.TrialEligible(history, selection.TeacherID, s.policy.Trial) {
			return pricing.BuildQuote(s.policy.Trial.TrialPrice, s.policy.Rates, true), nil
		}
	}

	rateCard, err := s.teachers.GetRateCard(ctx, selection.TeacherID)
	if err != nil {
		return model.PriceQuote{}, fmt.Errorf("get rate card: %w", err)
	}
	if rateCard == nil {
		return model.PriceQuote{}, fmt.Errorf("%w: no rate card for teacher %d", pricing.ErrUnsupportedDuration, selection.TeacherID)
	}

	var basePrice int64
	switch selection.LessonType {
	case model.LessonTypePackage:
		offers, err := s.teachers.GetPackageOffers(ctx, selection.TeacherID)
		if err != nil {
			return model.PriceQuote{}, fmt.Errorf("get package offers: %w", err)
		}
		packageQuote, err := pricing.QuotePackage(rateCard, selection.DurationMinutes, selection.LessonQuantity, offers, s.policy.Ladder)
		if err != nil {
			return model.PriceQuote{}, err
		}
		basePrice = packageQuote.FinalPrice
	default:
		basePrice, err = pricing.QuoteSingleLesson(rateCard, selection.DurationMinutes)
		if err != nil {
			return model.PriceQuote{}, err
		}
	}

	return pricing.BuildQuote(basePrice, s.policy.Rates, false), nil
}

// QuotePackage считает разбивку цены пакета для витрины учителя
func (s *BookingService) QuotePackage(ctx context.Context, teacherID int64, durationMinutes, quantity int) (pricing.PackageQuote, error) {
	rateCard, err := s.teachers.GetRateCard(ctx, teacherID)
	if err != nil {
		return pricing.PackageQuote{}, fmt.Errorf("get rate card: %w", err)
	}
	if rateCard == nil {
		return pricing.PackageQuote{}, fmt.Errorf("%w: no rate card for teacher %d", pricing.ErrUnsupportedDuration, teacherID)
	}

	offers, err := s.teachers.GetPackageOffers(ctx, teacherID)
	if err != nil {
		return pricing.PackageQuote{}, fmt.Errorf("get package offers: %w", err)
	}

	return pricing.QuotePackage(rateCard, durationMinutes, quantity, offers, s.policy.Ladder)
}

// QuoteGroupLesson возвращает цену с человека для группового урока
func (s *BookingService) QuoteGroupLesson(ctx context.Context, teacherID int64, groupSize int) (int64, error) {
	rates, err := s.teachers.GetGroupRates(ctx, teacherID)
	if err != nil {
		return 0, fmt.Errorf("get group rates: %w", err)
	}
	return pricing.QuoteGroupLesson(rates, groupSize)
}

// ConfirmBooking пересчитывает цену на сервере и создаёт урок.
// Расчёт и запись - один логический шаг: при сбое персистентности бронирование
// повторяется целиком, частично посчитанный урок не сохраняется.
func (s *BookingService) ConfirmBooking(ctx context.Context, studentID int64, selection model.BookingSelection, scheduledAt time.Time) (*model.Lesson, error) {
	if selection.TeacherID == 0 {
		return nil, ErrTeacherRequired
	}

	if scheduledAt.Before(time.Now()) {
		return nil, ErrPastTime
	}

	teacher, err := s.teachers.GetByID(ctx, selection.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, ErrTeacherNotFound
	}

	quote, err := s.CalculateBookingPrice(ctx, studentID, selection)
	if err != nil {
		return nil, err
	}

	quantity := 1
	if selection.LessonType == model.LessonTypePackage {
		quantity = selection.LessonQuantity
	}

	lesson := &model.Lesson{
		Reference:        uuid.New().String(),
		StudentID:        studentID,
		TeacherID:        selection.TeacherID,
		ScheduledAt:      scheduledAt,
		DurationMinutes:  selection.DurationMinutes,
		LessonQuantity:   quantity,
		BasePrice:        quote.BasePrice,
		CommissionAmount: quote.CommissionAmount,
		TaxAmount:        quote.TaxAmount,
		TotalAmount:      quote.TotalAmount,
		IsTrial:          quote.IsTrial,
		Status:           model.LessonStatusScheduled,
		CompletionStatus: model.CompletionStatusPending,
		AutoCompleteAt:   scheduledAt.Add(time.Duration(selection.DurationMinutes) * time.Minute).Add(s.policy.AutoCompleteDelay),
		ReminderSent:     false,
		RescheduleCount:  0,
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.lessons.Create(ctx, lesson); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Booking confirmed",
		zap.Int64("lesson_id", lesson.ID),
		zap.String("reference", lesson.Reference),
		zap.Int64("student_id", studentID),
		zap.Int64("teacher_id", selection.TeacherID),
		zap.Int64("total_amount", lesson.TotalAmount),
		zap.Bool("is_trial", lesson.IsTrial),
	)

	return lesson, nil
}

// studentHistory получает историю уроков студента для проверки пробных
func (s *BookingService) studentHistory(ctx context.Context, studentID int64) ([]model.Lesson, error) {
	rows, err := s.lessons.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student lessons: %w", err)
	}

	history := make([]model.Lesson, 0, len(rows))
	for _, row := range rows {
		history = append(history, *row)
	}
	return history, nil
}
