package notify

import (
	"context"

	"go.uber.org/zap"

	"tutorhub/internal/model"
)

// Event событие жизненного цикла урока для коллаборатора уведомлений
type Event struct {
	LessonID  int64  `json:"lesson_id"`
	Reference string `json:"reference"`
	StudentID int64  `json:"student_id"`
	TeacherID int64  `json:"teacher_id"`
}

// Notifier граница с системой доставки уведомлений (push/email вне этого сервиса)
type Notifier interface {
	ReminderDue(ctx context.Context, event Event)
	AutoCompleted(ctx context.Context, event Event)
}

// LogNotifier пишет события в лог. Реальная доставка подключается снаружи.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ReminderDue(_ context.Context, event Event) {
	n.logger.Info("Lesson reminder due",
		zap.Int64("lesson_id", event.LessonID),
		zap.String("reference", event.Reference),
		zap.Int64("student_id", event.StudentID),
		zap.Int64("teacher_id", event.TeacherID),
	)
}

func (n *LogNotifier) AutoCompleted(_ context.Context, event Event) {
	n.logger.Info("Lesson auto-completed",
		zap.Int64("lesson_id", event.LessonID),
		zap.String("reference", event.Reference),
		zap.Int64("student_id", event.StudentID),
		zap.Int64("teacher_id", event.TeacherID),
	)
}

// EventFromLesson собирает событие из урока
func EventFromLesson(lesson *model.Lesson) Event {
	return Event{
		LessonID:  lesson.ID,
		Reference: lesson.Reference,
		StudentID: lesson.StudentID,
		TeacherID: lesson.TeacherID,
	}
}
