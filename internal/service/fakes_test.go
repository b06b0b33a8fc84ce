package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tutorhub/internal/model"
	"tutorhub/internal/notify"
	"tutorhub/internal/pricing"
)

// fakeLessonStore in-memory реализация LessonStore с той же семантикой
// условных переходов, что и у SQL-репозитория
type fakeLessonStore struct {
	mu      sync.Mutex
	nextID  int64
	lessons map[int64]*model.Lesson
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: make(map[int64]*model.Lesson)}
}

func (f *fakeLessonStore) Create(_ context.Context, lesson *model.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	lesson.ID = f.nextID
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = lesson.CreatedAt
	copied := *lesson
	f.lessons[lesson.ID] = &copied
	return nil
}

func (f *fakeLessonStore) GetByID(_ context.Context, id int64) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lesson, ok := f.lessons[id]
	if !ok {
		return nil, nil
	}
	copied := *lesson
	return &copied, nil
}

func (f *fakeLessonStore) GetByStudentID(_ context.Context, studentID int64) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Lesson
	for _, lesson := range f.lessons {
		if lesson.StudentID == studentID {
			copied := *lesson
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeLessonStore) GetByTeacherID(_ context.Context, teacherID int64) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Lesson
	for _, lesson := range f.lessons {
		if lesson.TeacherID == teacherID {
			copied := *lesson
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeLessonStore) MarkCompleted(_ context.Context, id int64, completion model.CompletionStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lesson, ok := f.lessons[id]
	if !ok || lesson.Status != model.LessonStatusScheduled {
		return false, nil
	}
	lesson.Status = model.LessonStatusCompleted
	lesson.CompletionStatus = completion
	return true, nil
}

func (f *fakeLessonStore) MarkCancelled(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lesson, ok := f.lessons[id]
	if !ok || lesson.Status != model.LessonStatusScheduled {
		return false, nil
	}
	lesson.Status = model.LessonStatusCancelled
	return true, nil
}

func (f *fakeLessonStore) MarkReminderSent(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lesson, ok := f.lessons[id]
	if !ok || lesson.Status != model.LessonStatusScheduled || lesson.ReminderSent {
		return false, nil
	}
	lesson.ReminderSent = true
	return true, nil
}

func (f *fakeLessonStore) Reschedule(ctx context.Context, oldID int64, replacement *model.Lesson) error {
	f.mu.Lock()
	old, ok := f.lessons[oldID]
	if !ok || old.Status != model.LessonStatusScheduled {
		f.mu.Unlock()
		return fmt.Errorf("lesson is not scheduled")
	}
	old.Status = model.LessonStatusRescheduled
	f.mu.Unlock()

	return f.Create(ctx, replacement)
}

func (f *fakeLessonStore) GetDueReminders(_ context.Context, now, until time.Time) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Lesson
	for _, lesson := range f.lessons {
		if lesson.Status == model.LessonStatusScheduled && !lesson.ReminderSent &&
			!lesson.ScheduledAt.Before(now) && !lesson.ScheduledAt.After(until) {
			copied := *lesson
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeLessonStore) GetDueAutoCompletions(_ context.Context, now time.Time) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Lesson
	for _, lesson := range f.lessons {
		if lesson.Status == model.LessonStatusScheduled && !lesson.AutoCompleteAt.After(now) {
			copied := *lesson
			result = append(result, &copied)
		}
	}
	return result, nil
}

// fakeTeacherStore in-memory реализация TeacherStore
type fakeTeacherStore struct {
	mu       sync.Mutex
	teachers map[int64]*model.Teacher
	cards    map[int64]model.RateCard
	offers   map[int64][]model.PackageOffer
	groups   map[int64][]model.GroupRate
}

func newFakeTeacherStore() *fakeTeacherStore {
	return &fakeTeacherStore{
		teachers: make(map[int64]*model.Teacher),
		cards:    make(map[int64]model.RateCard),
		offers:   make(map[int64][]model.PackageOffer),
		groups:   make(map[int64][]model.GroupRate),
	}
}

func (f *fakeTeacherStore) addTeacher(id int64, card model.RateCard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teachers[id] = &model.Teacher{ID: id, Name: fmt.Sprintf("teacher-%d", id)}
	if card != nil {
		f.cards[id] = card
	}
}

func (f *fakeTeacherStore) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	teacher, ok := f.teachers[id]
	if !ok {
		return nil, nil
	}
	copied := *teacher
	return &copied, nil
}

func (f *fakeTeacherStore) GetRateCard(_ context.Context, teacherID int64) (model.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cards[teacherID], nil
}

func (f *fakeTeacherStore) GetPackageOffers(_ context.Context, teacherID int64) ([]model.PackageOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offers[teacherID], nil
}

func (f *fakeTeacherStore) GetGroupRates(_ context.Context, teacherID int64) ([]model.GroupRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[teacherID], nil
}

func (f *fakeTeacherStore) IncrementAbsence(_ context.Context, teacherID int64, suspendThreshold int) (*model.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	teacher, ok := f.teachers[teacherID]
	if !ok {
		return nil, nil
	}
	teacher.AbsenceCount++
	if teacher.AbsenceCount >= suspendThreshold {
		teacher.SuspensionFlagged = true
	}
	copied := *teacher
	return &copied, nil
}

// fakeNotifier накапливает отправленные события
type fakeNotifier struct {
	mu            sync.Mutex
	reminders     []notify.Event
	autoCompleted []notify.Event
}

func (f *fakeNotifier) ReminderDue(_ context.Context, event notify.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, event)
}

func (f *fakeNotifier) AutoCompleted(_ context.Context, event notify.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoCompleted = append(f.autoCompleted, event)
}

func testPolicy() Policy {
	return Policy{
		Rates: pricing.Rates{CommissionRate: 0.20, TaxRate: 0.10},
		Trial: pricing.TrialPolicy{
			TrialPrice:       500,
			MaxTrialTeachers: 3,
			LookupBasis:      pricing.TrialBasisFlag,
		},
		Ladder:                  pricing.NewDiscountLadder(map[int]float64{5: 0.05, 10: 0.10, 20: 0.15}),
		AutoCompleteDelay:       48 * time.Hour,
		ReminderLead:            30 * time.Minute,
		FreeCancellationWindow:  12 * time.Hour,
		MaxTeacherReschedules:   1,
		RescheduleWindow:        7 * 24 * time.Hour,
		AbsenceSuspendThreshold: 3,
	}
}
