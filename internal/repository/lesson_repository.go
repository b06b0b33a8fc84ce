package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tutorhub/internal/model"
)

const lessonColumns = `id, reference, student_id, teacher_id, scheduled_at, duration_minutes,
		lesson_quantity, base_price, commission_amount, tax_amount, total_amount, is_trial,
		status, completion_status, auto_complete_at, reminder_sent, reschedule_count,
		created_at, updated_at`

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var lesson model.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.Reference,
		&lesson.StudentID,
		&lesson.TeacherID,
		&lesson.ScheduledAt,
		&lesson.DurationMinutes,
		&lesson.LessonQuantity,
		&lesson.BasePrice,
		&lesson.CommissionAmount,
		&lesson.TaxAmount,
		&lesson.TotalAmount,
		&lesson.IsTrial,
		&lesson.Status,
		&lesson.CompletionStatus,
		&lesson.AutoCompleteAt,
		&lesson.ReminderSent,
		&lesson.RescheduleCount,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func scanLessons(rows pgx.Rows) ([]*model.Lesson, error) {
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// Create создаёт новый урок
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (reference, student_id, teacher_id, scheduled_at, duration_minutes,
			lesson_quantity, base_price, commission_amount, tax_amount, total_amount, is_trial,
			status, completion_status, auto_complete_at, reminder_sent, reschedule_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		lesson.Reference,
		lesson.StudentID,
		lesson.TeacherID,
		lesson.ScheduledAt,
		lesson.DurationMinutes,
		lesson.LessonQuantity,
		lesson.BasePrice,
		lesson.CommissionAmount,
		lesson.TaxAmount,
		lesson.TotalAmount,
		lesson.IsTrial,
		lesson.Status,
		lesson.CompletionStatus,
		lesson.AutoCompleteAt,
		lesson.ReminderSent,
		lesson.RescheduleCount,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает урок по ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1`, lessonColumns)

	lesson, err := scanLesson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// GetByStudentID получает все уроки студента (история для проверки пробных)
func (r *LessonRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*model.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lessons
		WHERE student_id = $1
		ORDER BY scheduled_at DESC
	`, lessonColumns)

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get lessons by student: %w", err)
	}

	return scanLessons(rows)
}

// GetByTeacherID получает все уроки учителя
func (r *LessonRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lessons
		WHERE teacher_id = $1
		ORDER BY scheduled_at DESC
	`, lessonColumns)

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get lessons by teacher: %w", err)
	}

	return scanLessons(rows)
}

// MarkCompleted переводит урок в completed, только если он ещё scheduled.
// Возвращает true если именно этот вызов выполнил переход.
func (r *LessonRepository) MarkCompleted(ctx context.Context, id int64, completion model.CompletionStatus) (bool, error) {
	query := `
		UPDATE lessons
		SET status = $1, completion_status = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`

	tag, err := r.pool.Exec(ctx, query, model.LessonStatusCompleted, completion, id, model.LessonStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("mark lesson completed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkCancelled переводит урок в cancelled, только если он ещё scheduled
func (r *LessonRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE lessons
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.pool.Exec(ctx, query, model.LessonStatusCancelled, id, model.LessonStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("mark lesson cancelled: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkReminderSent ставит флаг напоминания, только если он ещё не стоял.
// Условный UPDATE гарантирует, что уведомление уйдёт один раз.
func (r *LessonRepository) MarkReminderSent(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE lessons
		SET reminder_sent = true, updated_at = now()
		WHERE id = $1 AND reminder_sent = false AND status = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, model.LessonStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Reschedule помечает старый урок как rescheduled и создаёт новый запланированный
// урок одной транзакцией
func (r *LessonRepository) Reschedule(ctx context.Context, oldID int64, replacement *model.Lesson) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE lessons
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, model.LessonStatusRescheduled, oldID, model.LessonStatusScheduled)
	if err != nil {
		return fmt.Errorf("mark lesson rescheduled: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lesson is not scheduled")
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO lessons (reference, student_id, teacher_id, scheduled_at, duration_minutes,
			lesson_quantity, base_price, commission_amount, tax_amount, total_amount, is_trial,
			status, completion_status, auto_complete_at, reminder_sent, reschedule_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`,
		replacement.Reference,
		replacement.StudentID,
		replacement.TeacherID,
		replacement.ScheduledAt,
		replacement.DurationMinutes,
		replacement.LessonQuantity,
		replacement.BasePrice,
		replacement.CommissionAmount,
		replacement.TaxAmount,
		replacement.TotalAmount,
		replacement.IsTrial,
		replacement.Status,
		replacement.CompletionStatus,
		replacement.AutoCompleteAt,
		replacement.ReminderSent,
		replacement.RescheduleCount,
	).Scan(&replacement.ID, &replacement.CreatedAt, &replacement.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create replacement lesson: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetDueReminders получает уроки, для которых пора отправить напоминание
func (r *LessonRepository) GetDueReminders(ctx context.Context, now, until time.Time) ([]*model.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lessons
		WHERE status = $1 AND reminder_sent = false
			AND scheduled_at >= $2 AND scheduled_at <= $3
		ORDER BY scheduled_at ASC
	`, lessonColumns)

	rows, err := r.pool.Query(ctx, query, model.LessonStatusScheduled, now, until)
	if err != nil {
		return nil, fmt.Errorf("get due reminders: %w", err)
	}

	return scanLessons(rows)
}

// GetDueAutoCompletions получает уроки, у которых наступил срок автозавершения
func (r *LessonRepository) GetDueAutoCompletions(ctx context.Context, now time.Time) ([]*model.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lessons
		WHERE status = $1 AND auto_complete_at <= $2
		ORDER BY auto_complete_at ASC
	`, lessonColumns)

	rows, err := r.pool.Query(ctx, query, model.LessonStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("get due auto-completions: %w", err)
	}

	return scanLessons(rows)
}
