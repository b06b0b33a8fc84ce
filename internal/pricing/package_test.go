package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorhub/internal/model"
)

func defaultLadder() DiscountLadder {
	return NewDiscountLadder(map[int]float64{5: 0.05, 10: 0.10, 20: 0.15})
}

func TestQuotePackageDefaultLadder(t *testing.T) {
	rateCard, err := model.NewRateCard(map[int]int64{60: 3000})
	require.NoError(t, err)

	tests := []struct {
		name         string
		quantity     int
		wantOriginal int64
		wantDiscount int64
		wantFinal    int64
		wantPerUnit  int64
	}{
		{name: "5 lessons get 5%", quantity: 5, wantOriginal: 15000, wantDiscount: 750, wantFinal: 14250, wantPerUnit: 2850},
		{name: "9 lessons still 5%", quantity: 9, wantOriginal: 27000, wantDiscount: 1350, wantFinal: 25650, wantPerUnit: 2850},
		{name: "10 lessons get 10%", quantity: 10, wantOriginal: 30000, wantDiscount: 3000, wantFinal: 27000, wantPerUnit: 2700},
		{name: "19 lessons still 10%", quantity: 19, wantOriginal: 57000, wantDiscount: 5700, wantFinal: 51300, wantPerUnit: 2700},
		{name: "20 lessons get 15%", quantity: 20, wantOriginal: 60000, wantDiscount: 9000, wantFinal: 51000, wantPerUnit: 2550},
		{name: "25 lessons still 15%", quantity: 25, wantOriginal: 75000, wantDiscount: 11250, wantFinal: 63750, wantPerUnit: 2550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := QuotePackage(rateCard, 60, tt.quantity, nil, defaultLadder())
			require.NoError(t, err)

			assert.Equal(t, tt.wantOriginal, quote.OriginalPrice)
			assert.Equal(t, tt.wantDiscount, quote.DiscountAmount)
			assert.Equal(t, tt.wantFinal, quote.FinalPrice)
			assert.Equal(t, tt.wantPerUnit, quote.PricePerLesson)
		})
	}
}

func TestQuotePackageExplicitOfferWins(t *testing.T) {
	rateCard, err := model.NewRateCard(map[int]int64{60: 3000})
	require.NoError(t, err)

	offers := []model.PackageOffer{
		{TeacherID: 1, LessonCount: 10, DiscountPercent: 25},
	}

	// Для 10 уроков действует оффер учителя с 25%, а не дефолтные 10%
	quote, err := QuotePackage(rateCard, 60, 10, offers, defaultLadder())
	require.NoError(t, err)
	assert.Equal(t, int64(7500), quote.DiscountAmount)
	assert.Equal(t, int64(22500), quote.FinalPrice)

	// Для других количеств оффер не действует
	quote, err = QuotePackage(rateCard, 60, 5, offers, defaultLadder())
	require.NoError(t, err)
	assert.Equal(t, int64(750), quote.DiscountAmount)
}

func TestQuotePackageQuantityBounds(t *testing.T) {
	rateCard, err := model.NewRateCard(map[int]int64{60: 3000})
	require.NoError(t, err)

	for _, quantity := range []int{0, 1, 4, 26, 100} {
		_, err := QuotePackage(rateCard, 60, quantity, nil, defaultLadder())
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", quantity)
	}
}

func TestQuotePackageUnsupportedDuration(t *testing.T) {
	rateCard, err := model.NewRateCard(map[int]int64{60: 3000})
	require.NoError(t, err)

	_, err = QuotePackage(rateCard, 45, 10, nil, defaultLadder())
	assert.ErrorIs(t, err, ErrUnsupportedDuration)
}

func TestQuoteGroupLesson(t *testing.T) {
	rates := []model.GroupRate{
		{TeacherID: 1, GroupSize: 2, PricePerPerson: 2000},
		{TeacherID: 1, GroupSize: 4, PricePerPerson: 1200},
	}

	price, err := QuoteGroupLesson(rates, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), price)

	// Точное совпадение размера, промежуточные размеры не интерполируются
	_, err = QuoteGroupLesson(rates, 3)
	assert.ErrorIs(t, err, ErrNoGroupRate)

	_, err = QuoteGroupLesson(nil, 2)
	assert.ErrorIs(t, err, ErrNoGroupRate)
}

func TestPackageOfferValidate(t *testing.T) {
	assert.NoError(t, model.PackageOffer{LessonCount: 10, DiscountPercent: 25}.Validate())
	assert.Error(t, model.PackageOffer{LessonCount: 4, DiscountPercent: 10}.Validate())
	assert.Error(t, model.PackageOffer{LessonCount: 26, DiscountPercent: 10}.Validate())
	// Скидка 100% дала бы нулевую итоговую цену
	assert.Error(t, model.PackageOffer{LessonCount: 10, DiscountPercent: 100}.Validate())
	assert.Error(t, model.PackageOffer{LessonCount: 10, DiscountPercent: -5}.Validate())
}
