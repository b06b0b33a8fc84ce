package service

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/model"
)

var (
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrTeacherNotFound   = errors.New("teacher not found")
	ErrTeacherRequired   = errors.New("teacher is not selected")
	ErrInvalidTransition = errors.New("lesson is in a terminal state")
	ErrRescheduleLimit   = errors.New("reschedule limit reached for this lesson")
	ErrRescheduleWindow  = errors.New("new time is outside the reschedule window")
	ErrPastTime          = errors.New("scheduled time is in the past")
)

// LessonStore операции персистентности для уроков.
// Реализуется repository.LessonRepository, в тестах - in-memory фейком.
type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*model.Lesson, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Lesson, error)
	MarkCompleted(ctx context.Context, id int64, completion model.CompletionStatus) (bool, error)
	MarkCancelled(ctx context.Context, id int64) (bool, error)
	MarkReminderSent(ctx context.Context, id int64) (bool, error)
	Reschedule(ctx context.Context, oldID int64, replacement *model.Lesson) error
	GetDueReminders(ctx context.Context, now, until time.Time) ([]*model.Lesson, error)
	GetDueAutoCompletions(ctx context.Context, now time.Time) ([]*model.Lesson, error)
}

// TeacherStore операции персистентности для учителей и их цен
type TeacherStore interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	GetRateCard(ctx context.Context, teacherID int64) (model.RateCard, error)
	GetPackageOffers(ctx context.Context, teacherID int64) ([]model.PackageOffer, error)
	GetGroupRates(ctx context.Context, teacherID int64) ([]model.GroupRate, error)
	IncrementAbsence(ctx context.Context, teacherID int64, suspendThreshold int) (*model.Teacher, error)
}
