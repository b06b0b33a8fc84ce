package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tutorhub/internal/model"
)

func flagPolicy() TrialPolicy {
	return TrialPolicy{TrialPrice: 500, MaxTrialTeachers: 3, LookupBasis: TrialBasisFlag}
}

func trialLesson(teacherID int64) model.Lesson {
	return model.Lesson{
		TeacherID:      teacherID,
		IsTrial:        true,
		BasePrice:      500,
		LessonQuantity: 1,
		Status:         model.LessonStatusCompleted,
	}
}

func TestTrialEligible(t *testing.T) {
	tests := []struct {
		name      string
		history   []model.Lesson
		teacherID int64
		want      bool
	}{
		{
			name:      "no history",
			history:   nil,
			teacherID: 1,
			want:      true,
		},
		{
			name:      "already trialed with this teacher",
			history:   []model.Lesson{trialLesson(1)},
			teacherID: 1,
			want:      false,
		},
		{
			name:      "trialed with other teachers under limit",
			history:   []model.Lesson{trialLesson(1), trialLesson(2)},
			teacherID: 3,
			want:      true,
		},
		{
			name:      "limit of three distinct teachers reached",
			history:   []model.Lesson{trialLesson(1), trialLesson(2), trialLesson(3)},
			teacherID: 4,
			want:      false,
		},
		{
			name: "regular lessons do not consume trials",
			history: []model.Lesson{
				{TeacherID: 1, BasePrice: 3000, LessonQuantity: 1, Status: model.LessonStatusCompleted},
				{TeacherID: 2, BasePrice: 3000, LessonQuantity: 1, Status: model.LessonStatusCompleted},
			},
			teacherID: 1,
			want:      true,
		},
		{
			name: "cancelled trial does not consume the slot",
			history: []model.Lesson{
				{TeacherID: 1, IsTrial: true, BasePrice: 500, LessonQuantity: 1, Status: model.LessonStatusCancelled},
			},
			teacherID: 1,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrialEligible(tt.history, tt.teacherID, flagPolicy()))
		})
	}
}

func TestTrialEligiblePriceBasis(t *testing.T) {
	policy := TrialPolicy{TrialPrice: 500, MaxTrialTeachers: 3, LookupBasis: TrialBasisPrice}

	// Легаси-история без флага: пробным считается одиночный урок по пробной цене
	history := []model.Lesson{
		{TeacherID: 1, BasePrice: 500, LessonQuantity: 1, Status: model.LessonStatusCompleted},
		// Пакет по совпадающей цене пробным не считается
		{TeacherID: 2, BasePrice: 500, LessonQuantity: 5, Status: model.LessonStatusCompleted},
	}

	assert.False(t, TrialEligible(history, 1, policy))
	assert.True(t, TrialEligible(history, 2, policy))
}

func TestTrialedTeachersDistinct(t *testing.T) {
	// Два пробных с одним учителем занимают один слот из трёх
	history := []model.Lesson{trialLesson(1), trialLesson(1), trialLesson(2)}

	trialed := TrialedTeachers(history, flagPolicy())
	assert.Len(t, trialed, 2)
	assert.True(t, trialed[1])
	assert.True(t, trialed[2])
}
