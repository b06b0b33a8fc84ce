package model

import "time"

type LessonStatus string

const (
	LessonStatusScheduled   LessonStatus = "scheduled"   // Урок запланирован
	LessonStatusCompleted   LessonStatus = "completed"   // Урок завершён (терминальный статус)
	LessonStatusCancelled   LessonStatus = "cancelled"   // Урок отменён (терминальный статус)
	LessonStatusRescheduled LessonStatus = "rescheduled" // Перенесён, создан новый запланированный урок
)

type CompletionStatus string

const (
	CompletionStatusPending CompletionStatus = "pending" // Завершение ещё не подтверждено
	CompletionStatusManual  CompletionStatus = "manual"  // Завершение подтверждено студентом или учителем
	CompletionStatusAuto    CompletionStatus = "auto"    // Завершено автоматически по таймеру
)

// IsTerminal возвращает true если из статуса нет допустимых переходов
func (s LessonStatus) IsTerminal() bool {
	return s == LessonStatusCompleted || s == LessonStatusCancelled
}

type Lesson struct {
	ID               int64            `json:"id"`
	Reference        string           `json:"reference"` // UUID для уведомлений и квитанций
	StudentID        int64            `json:"student_id"`
	TeacherID        int64            `json:"teacher_id"`
	ScheduledAt      time.Time        `json:"scheduled_at"`
	DurationMinutes  int              `json:"duration_minutes"`
	LessonQuantity   int              `json:"lesson_quantity"` // 1 для одиночного урока, 5-25 для пакета
	BasePrice        int64            `json:"base_price"`      // Все суммы в центах
	CommissionAmount int64            `json:"commission_amount"`
	TaxAmount        int64            `json:"tax_amount"`
	TotalAmount      int64            `json:"total_amount"`
	IsTrial          bool             `json:"is_trial"`
	Status           LessonStatus     `json:"status"`
	CompletionStatus CompletionStatus `json:"completion_status"`
	AutoCompleteAt   time.Time        `json:"auto_complete_at"`
	ReminderSent     bool             `json:"reminder_sent"`
	RescheduleCount  int              `json:"reschedule_count"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ScheduledEnd возвращает время окончания урока
func (l *Lesson) ScheduledEnd() time.Time {
	return l.ScheduledAt.Add(time.Duration(l.DurationMinutes) * time.Minute)
}
