package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiscountLadder(t *testing.T) {
	ladder, err := ParseDiscountLadder("5:0.05,10:0.10,20:0.15")
	require.NoError(t, err)

	assert.Equal(t, map[int]float64{5: 0.05, 10: 0.10, 20: 0.15}, ladder)
}

func TestParseDiscountLadderErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "missing percent", raw: "5"},
		{name: "bad quantity", raw: "x:0.05"},
		{name: "bad percent", raw: "5:y"},
		{name: "percent over one", raw: "5:1.5"},
		{name: "negative percent", raw: "5:-0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDiscountLadder(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/tutorhub")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.20, cfg.CommissionRate)
	assert.Equal(t, 0.10, cfg.TaxRate)
	assert.Equal(t, int64(500), cfg.TrialPriceCents)
	assert.Equal(t, 3, cfg.MaxTrialTeachers)
	assert.Equal(t, "flag", cfg.TrialLookupBasis)
	assert.Equal(t, 48, cfg.AutoCompleteDelayHours)
	assert.Equal(t, 30, cfg.ReminderLeadMinutes)
	assert.Equal(t, 12, cfg.FreeCancellationWindowHours)
	assert.Equal(t, 1, cfg.MaxTeacherReschedules)
	assert.Equal(t, map[int]float64{5: 0.05, 10: 0.10, 20: 0.15}, cfg.PackageDiscountLadder)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTrialBasis(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/tutorhub")
	t.Setenv("TRIAL_LOOKUP_BASIS", "guesswork")

	_, err := Load()
	assert.Error(t, err)
}
