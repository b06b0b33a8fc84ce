package pricing

import "tutorhub/internal/model"

// Основание для определения пробного урока в истории студента
type TrialLookupBasis string

const (
	// Ищем по явному флагу is_trial, проставленному при создании урока
	TrialBasisFlag TrialLookupBasis = "flag"
	// Легаси-режим: пробным считается одиночный урок с ценой равной пробной
	TrialBasisPrice TrialLookupBasis = "price"
)

// TrialPolicy правила пробных уроков платформы
type TrialPolicy struct {
	TrialPrice       int64 // Фиксированная цена пробного урока в центах
	MaxTrialTeachers int   // Максимум учителей, с которыми доступен пробный урок
	LookupBasis      TrialLookupBasis
}

// isTrialLesson определяет, был ли прошлый урок пробным
func (p TrialPolicy) isTrialLesson(lesson model.Lesson) bool {
	if p.LookupBasis == TrialBasisPrice {
		return lesson.LessonQuantity <= 1 && lesson.BasePrice == p.TrialPrice
	}
	return lesson.IsTrial
}

// TrialedTeachers возвращает ID учителей, с которыми студент уже брал пробный урок.
// Отменённые уроки пробный не расходуют.
func TrialedTeachers(history []model.Lesson, policy TrialPolicy) map[int64]bool {
	teachers := make(map[int64]bool)
	for _, lesson := range history {
		if lesson.Status == model.LessonStatusCancelled {
			continue
		}
		if policy.isTrialLesson(lesson) {
			teachers[lesson.TeacherID] = true
		}
	}
	return teachers
}

// TrialEligible проверяет, доступен ли студенту пробный урок с этим учителем.
// Доступен, если студент ещё не брал пробный у этого учителя и не исчерпал
// лимит пробных по разным учителям.
func TrialEligible(history []model.Lesson, teacherID int64, policy TrialPolicy) bool {
	trialed := TrialedTeachers(history, policy)
	if trialed[teacherID] {
		return false
	}
	return len(trialed) < policy.MaxTrialTeachers
}
