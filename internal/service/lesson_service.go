package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tutorhub/internal/model"
	"tutorhub/internal/notify"
)

// LessonService владеет жизненным циклом урока от создания до завершения или отмены
type LessonService struct {
	lessons  LessonStore
	teachers TeacherStore
	notifier notify.Notifier
	policy   Policy
	logger   *zap.Logger
}

func NewLessonService(lessons LessonStore, teachers TeacherStore, notifier notify.Notifier, policy Policy, logger *zap.Logger) *LessonService {
	return &LessonService{
		lessons:  lessons,
		teachers: teachers,
		notifier: notifier,
		policy:   policy,
		logger:   logger,
	}
}

// GetByID получает урок по ID
func (s *LessonService) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}

// GetStudentLessons получает все уроки студента
func (s *LessonService) GetStudentLessons(ctx context.Context, studentID int64) ([]*model.Lesson, error) {
	return s.lessons.GetByStudentID(ctx, studentID)
}

// GetTeacherLessons получает все уроки учителя
func (s *LessonService) GetTeacherLessons(ctx context.Context, teacherID int64) ([]*model.Lesson, error) {
	return s.lessons.GetByTeacherID(ctx, teacherID)
}

// CompleteLesson подтверждает завершение урока вручную (студентом или учителем).
// Повторное подтверждение уже завершённого урока - no-op, а не ошибка: обе
// стороны могут нажать кнопку одновременно.
func (s *LessonService) CompleteLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if lesson.Status == model.LessonStatusCompleted {
		return lesson, nil
	}
	if lesson.Status != model.LessonStatusScheduled {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, lesson.Status)
	}

	won, err := s.lessons.MarkCompleted(ctx, id, model.CompletionStatusManual)
	if err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	updated, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload lesson: %w", err)
	}

	// Проиграли гонку: кто-то успел перевести урок первым. Если он завершён -
	// считаем успехом, если отменён - это недопустимый переход.
	if !won && updated.Status != model.LessonStatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, updated.Status)
	}

	if won {
		s.logger.Info("Lesson completed manually",
			zap.Int64("lesson_id", id),
			zap.Int64("student_id", updated.StudentID),
			zap.Int64("teacher_id", updated.TeacherID),
		)
	}

	return updated, nil
}

// CancellationResult итог отмены урока
type CancellationResult struct {
	Lesson     *model.Lesson `json:"lesson"`
	FullRefund bool          `json:"full_refund"`
	Reason     string        `json:"reason"`
}

// CancelLesson отменяет запланированный урок и решает вопрос возврата.
// Полный возврат: отмена заранее (за FreeCancellationWindow до начала), право
// на возврат после исчерпанных переносов учителя, либо урок так и не состоялся
// (время прошло, а завершение не подтверждено - прогул учителя).
func (s *LessonService) CancelLesson(ctx context.Context, id int64, now time.Time) (*CancellationResult, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if lesson.Status != model.LessonStatusScheduled {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, lesson.Status)
	}

	fullRefund, reason := s.refundDecision(lesson, now)

	won, err := s.lessons.MarkCancelled(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel lesson: %w", err)
	}
	if !won {
		// Урок успел перейти в другой статус между чтением и записью
		updated, err := s.lessons.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reload lesson: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, updated.Status)
	}

	lesson.Status = model.LessonStatusCancelled

	s.logger.Info("Lesson cancelled",
		zap.Int64("lesson_id", id),
		zap.Bool("full_refund", fullRefund),
		zap.String("reason", reason),
	)

	return &CancellationResult{
		Lesson:     lesson,
		FullRefund: fullRefund,
		Reason:     reason,
	}, nil
}

func (s *LessonService) refundDecision(lesson *model.Lesson, now time.Time) (bool, string) {
	switch {
	case lesson.RescheduleCount >= s.policy.MaxTeacherReschedules:
		return true, "teacher reschedule limit exhausted"
	case now.After(lesson.ScheduledEnd()):
		return true, "lesson was never held"
	case lesson.ScheduledAt.Sub(now) >= s.policy.FreeCancellationWindow:
		return true, "cancelled outside penalty window"
	default:
		return false, "late cancellation"
	}
}

// RescheduleLesson переносит урок по инициативе учителя: старый урок помечается
// rescheduled, вместо него создаётся новый запланированный с той же ценой.
func (s *LessonService) RescheduleLesson(ctx context.Context, id int64, newStart time.Time, now time.Time) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if lesson.Status != model.LessonStatusScheduled {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, lesson.Status)
	}

	// После исчерпания лимита переносов у студента появляется право на возврат,
	// новые переносы не принимаются
	if lesson.RescheduleCount >= s.policy.MaxTeacherReschedules {
		return nil, ErrRescheduleLimit
	}

	if newStart.Before(now) {
		return nil, ErrPastTime
	}

	if newStart.Sub(lesson.ScheduledAt) > s.policy.RescheduleWindow || lesson.ScheduledAt.Sub(newStart) > s.policy.RescheduleWindow {
		return nil, ErrRescheduleWindow
	}

	replacement := &model.Lesson{
		Reference:        uuid.New().String(),
		StudentID:        lesson.StudentID,
		TeacherID:        lesson.TeacherID,
		ScheduledAt:      newStart,
		DurationMinutes:  lesson.DurationMinutes,
		LessonQuantity:   lesson.LessonQuantity,
		BasePrice:        lesson.BasePrice,
		CommissionAmount: lesson.CommissionAmount,
		TaxAmount:        lesson.TaxAmount,
		TotalAmount:      lesson.TotalAmount,
		IsTrial:          lesson.IsTrial,
		Status:           model.LessonStatusScheduled,
		CompletionStatus: model.CompletionStatusPending,
		AutoCompleteAt:   newStart.Add(time.Duration(lesson.DurationMinutes) * time.Minute).Add(s.policy.AutoCompleteDelay),
		ReminderSent:     false,
		RescheduleCount:  lesson.RescheduleCount + 1,
	}

	if err := s.lessons.Reschedule(ctx, id, replacement); err != nil {
		return nil, fmt.Errorf("reschedule lesson: %w", err)
	}

	s.logger.Info("Lesson rescheduled",
		zap.Int64("old_lesson_id", id),
		zap.Int64("new_lesson_id", replacement.ID),
		zap.Time("new_start", newStart),
		zap.Int("reschedule_count", replacement.RescheduleCount),
	)

	return replacement, nil
}

// AbsenceResult итог жалобы на прогул учителя
type AbsenceResult struct {
	Teacher           *model.Teacher `json:"teacher"`
	SuspensionFlagged bool           `json:"suspension_flagged"`
}

// ReportTutorAbsence фиксирует прогул учителя: урок не состоялся и не был
// перенесён. Счётчик прогулов растёт, на пороге аккаунт помечается для
// блокировки. Сам возврат или перенос студент запрашивает отдельно.
func (s *LessonService) ReportTutorAbsence(ctx context.Context, lessonID int64) (*AbsenceResult, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if lesson.Status != model.LessonStatusScheduled {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, lesson.Status)
	}

	teacher, err := s.teachers.IncrementAbsence(ctx, lesson.TeacherID, s.policy.AbsenceSuspendThreshold)
	if err != nil {
		return nil, fmt.Errorf("increment absence: %w", err)
	}
	if teacher == nil {
		return nil, ErrTeacherNotFound
	}

	if teacher.SuspensionFlagged {
		s.logger.Warn("Teacher flagged for suspension",
			zap.Int64("teacher_id", teacher.ID),
			zap.Int("absence_count", teacher.AbsenceCount),
		)
	} else {
		s.logger.Info("Tutor absence reported",
			zap.Int64("lesson_id", lessonID),
			zap.Int64("teacher_id", teacher.ID),
			zap.Int("absence_count", teacher.AbsenceCount),
		)
	}

	return &AbsenceResult{
		Teacher:           teacher,
		SuspensionFlagged: teacher.SuspensionFlagged,
	}, nil
}

// ProcessDueReminders отправляет напоминания об уроках, начинающихся в ближайшие
// ReminderLead минут. Безопасно вызывать повторно: флаг reminder_sent ставится
// условным UPDATE, уведомление уходит только выигравшему вызову.
func (s *LessonService) ProcessDueReminders(ctx context.Context, now time.Time) error {
	due, err := s.lessons.GetDueReminders(ctx, now, now.Add(s.policy.ReminderLead))
	if err != nil {
		return fmt.Errorf("get due reminders: %w", err)
	}

	for _, lesson := range due {
		sent, err := s.lessons.MarkReminderSent(ctx, lesson.ID)
		if err != nil {
			s.logger.Error("Failed to mark reminder sent",
				zap.Int64("lesson_id", lesson.ID),
				zap.Error(err))
			continue
		}
		if !sent {
			continue
		}

		s.notifier.ReminderDue(ctx, notify.EventFromLesson(lesson))
	}

	return nil
}

// ProcessAutoCompletions завершает уроки, по которым прошло 48 часов после
// окончания без ручного подтверждения. Урок, успевший отмениться или
// завершиться, пропускается - это ожидаемый исход гонки, не ошибка.
func (s *LessonService) ProcessAutoCompletions(ctx context.Context, now time.Time) error {
	due, err := s.lessons.GetDueAutoCompletions(ctx, now)
	if err != nil {
		return fmt.Errorf("get due auto-completions: %w", err)
	}

	for _, lesson := range due {
		won, err := s.lessons.MarkCompleted(ctx, lesson.ID, model.CompletionStatusAuto)
		if err != nil {
			s.logger.Error("Failed to auto-complete lesson",
				zap.Int64("lesson_id", lesson.ID),
				zap.Error(err))
			continue
		}
		if !won {
			continue
		}

		s.logger.Info("Lesson auto-completed",
			zap.Int64("lesson_id", lesson.ID),
			zap.Time("auto_complete_at", lesson.AutoCompleteAt),
		)

		s.notifier.AutoCompleted(ctx, notify.EventFromLesson(lesson))
	}

	return nil
}
