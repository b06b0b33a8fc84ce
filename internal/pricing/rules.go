package pricing

import (
	"fmt"
	"math"

	"tutorhub/internal/model"
)

// Rates ставки платформы. Значения приходят из конфига, не хардкодятся.
type Rates struct {
	CommissionRate float64 // Доля платформы от базовой цены (0.20)
	TaxRate        float64 // Налог на базовую цену (0.10)
}

// QuoteSingleLesson возвращает базовую цену одиночного урока по прайсу учителя
func QuoteSingleLesson(rateCard model.RateCard, durationMinutes int) (int64, error) {
	price, ok := rateCard.UnitPrice(durationMinutes)
	if !ok {
		return 0, fmt.Errorf("%w: %d minutes", ErrUnsupportedDuration, durationMinutes)
	}
	return price, nil
}

// BuildQuote раскладывает базовую цену на комиссию, налог и итог.
// Комиссия вычитается из доли учителя, налог добавляется к сумме студента.
func BuildQuote(basePrice int64, rates Rates, isTrial bool) model.PriceQuote {
	commission := roundCents(float64(basePrice) * rates.CommissionRate)
	tax := roundCents(float64(basePrice) * rates.TaxRate)

	return model.PriceQuote{
		BasePrice:        basePrice,
		CommissionAmount: commission,
		TaxAmount:        tax,
		TotalAmount:      basePrice + tax,
		TeacherEarnings:  basePrice - commission,
		IsTrial:          isTrial,
	}
}

// roundCents округляет до целого цента (половина - от нуля)
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
