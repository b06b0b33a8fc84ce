package pricing

import (
	"fmt"
	"sort"

	"tutorhub/internal/model"
)

const (
	MinPackageQuantity = 5
	MaxPackageQuantity = 25
)

// DiscountTier ступень дефолтной лестницы скидок платформы
type DiscountTier struct {
	MinQuantity int
	Percent     float64 // Доля, например 0.05
}

// DiscountLadder лестница скидок по количеству уроков, отсортирована по MinQuantity
type DiscountLadder []DiscountTier

// PercentFor возвращает скидку для количества уроков (последняя достигнутая ступень)
func (l DiscountLadder) PercentFor(quantity int) float64 {
	percent := 0.0
	for _, tier := range l {
		if quantity >= tier.MinQuantity {
			percent = tier.Percent
		}
	}
	return percent
}

// NewDiscountLadder строит лестницу из map количество -> доля скидки
func NewDiscountLadder(tiers map[int]float64) DiscountLadder {
	ladder := make(DiscountLadder, 0, len(tiers))
	for quantity, percent := range tiers {
		ladder = append(ladder, DiscountTier{MinQuantity: quantity, Percent: percent})
	}
	sort.Slice(ladder, func(i, j int) bool {
		return ladder[i].MinQuantity < ladder[j].MinQuantity
	})
	return ladder
}

// PackageQuote расчёт цены пакета уроков. Все суммы в центах.
type PackageQuote struct {
	OriginalPrice  int64 `json:"original_price"`
	DiscountAmount int64 `json:"discount_amount"`
	FinalPrice     int64 `json:"final_price"`
	PricePerLesson int64 `json:"price_per_lesson"`
}

// QuotePackage считает цену пакета уроков.
// Явный оффер учителя на это количество имеет приоритет над дефолтной лестницей.
func QuotePackage(rateCard model.RateCard, durationMinutes, quantity int, offers []model.PackageOffer, ladder DiscountLadder) (PackageQuote, error) {
	if quantity < MinPackageQuantity || quantity > MaxPackageQuantity {
		return PackageQuote{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	unitPrice, err := QuoteSingleLesson(rateCard, durationMinutes)
	if err != nil {
		return PackageQuote{}, err
	}

	originalPrice := unitPrice * int64(quantity)

	percent := ladder.PercentFor(quantity)
	for _, offer := range offers {
		if offer.LessonCount == quantity {
			percent = float64(offer.DiscountPercent) / 100
			break
		}
	}

	discount := roundCents(float64(originalPrice) * percent)
	finalPrice := originalPrice - discount

	return PackageQuote{
		OriginalPrice:  originalPrice,
		DiscountAmount: discount,
		FinalPrice:     finalPrice,
		PricePerLesson: finalPrice / int64(quantity),
	}, nil
}

// QuoteGroupLesson возвращает цену с человека для группы точного размера
func QuoteGroupLesson(groupRates []model.GroupRate, groupSize int) (int64, error) {
	for _, rate := range groupRates {
		if rate.GroupSize == groupSize {
			return rate.PricePerPerson, nil
		}
	}
	return 0, fmt.Errorf("%w: %d people", ErrNoGroupRate, groupSize)
}
