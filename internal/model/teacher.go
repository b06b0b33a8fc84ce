package model

import (
	"fmt"
	"time"
)

type Teacher struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	AbsenceCount      int       `json:"absence_count"`      // Сколько раз учитель не провёл урок и не перенёс его
	SuspensionFlagged bool      `json:"suspension_flagged"` // Помечен для блокировки (решение принимает админка)
	CreatedAt         time.Time `json:"created_at"`
}

// RateCard цены учителя по длительности урока: минуты -> цена в центах
type RateCard map[int]int64

// NewRateCard валидирует прайс учителя: каждая длительность должна иметь положительную цену
func NewRateCard(prices map[int]int64) (RateCard, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("rate card is empty")
	}
	for duration, price := range prices {
		if duration <= 0 {
			return nil, fmt.Errorf("invalid duration %d", duration)
		}
		if price <= 0 {
			return nil, fmt.Errorf("non-positive price %d for duration %d", price, duration)
		}
	}
	return RateCard(prices), nil
}

// UnitPrice возвращает цену урока заданной длительности
func (rc RateCard) UnitPrice(durationMinutes int) (int64, bool) {
	price, ok := rc[durationMinutes]
	return price, ok
}

// PackageOffer скидка учителя на пакет уроков
type PackageOffer struct {
	ID              int64 `json:"id"`
	TeacherID       int64 `json:"teacher_id"`
	LessonCount     int   `json:"lesson_count"`     // От 5 до 25
	DiscountPercent int   `json:"discount_percent"` // От 0 до 100
}

// Validate проверяет что оффер не даёт нулевую или отрицательную итоговую цену
func (o PackageOffer) Validate() error {
	if o.LessonCount < 5 || o.LessonCount > 25 {
		return fmt.Errorf("lesson count %d out of range [5, 25]", o.LessonCount)
	}
	if o.DiscountPercent < 0 || o.DiscountPercent >= 100 {
		return fmt.Errorf("discount percent %d would produce a non-positive price", o.DiscountPercent)
	}
	return nil
}

// GroupRate цена с человека для группового урока заданного размера
type GroupRate struct {
	ID             int64 `json:"id"`
	TeacherID      int64 `json:"teacher_id"`
	GroupSize      int   `json:"group_size"`
	PricePerPerson int64 `json:"price_per_person"` // В центах
}
