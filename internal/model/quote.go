package model

type LessonType string

const (
	LessonTypeSingle  LessonType = "single"
	LessonTypePackage LessonType = "package"
)

// BookingSelection выбор студента на форме бронирования
type BookingSelection struct {
	TeacherID       int64      `json:"teacher_id"` // 0 = учитель ещё не выбран
	LessonType      LessonType `json:"lesson_type"`
	DurationMinutes int        `json:"duration_minutes"`
	LessonQuantity  int        `json:"lesson_quantity"` // Только для пакетов
}

// PriceQuote расчёт цены, показываемый студенту до оплаты. Не персистится как есть.
// Все суммы в центах.
type PriceQuote struct {
	BasePrice        int64 `json:"base_price"`
	CommissionAmount int64 `json:"commission_amount"` // Комиссия платформы, вычитается из доли учителя
	TaxAmount        int64 `json:"tax_amount"`        // Налог на базовую цену, платит студент
	TotalAmount      int64 `json:"total_amount"`      // base + tax
	TeacherEarnings  int64 `json:"teacher_earnings"`  // base - commission
	IsTrial          bool  `json:"is_trial"`
}

// IsZero возвращает true для пустого расчёта-заглушки (учитель не выбран)
func (q PriceQuote) IsZero() bool {
	return q.BasePrice == 0 && q.TotalAmount == 0 && !q.IsTrial
}
