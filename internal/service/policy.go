package service

import (
	"time"

	"tutorhub/internal/config"
	"tutorhub/internal/pricing"
)

// Policy собранные из конфига правила платформы
type Policy struct {
	Rates  pricing.Rates
	Trial  pricing.TrialPolicy
	Ladder pricing.DiscountLadder

	AutoCompleteDelay      time.Duration
	ReminderLead           time.Duration
	FreeCancellationWindow time.Duration

	MaxTeacherReschedules   int
	RescheduleWindow        time.Duration
	AbsenceSuspendThreshold int
}

// PolicyFromConfig переводит значения конфига в правила платформы
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		Rates: pricing.Rates{
			CommissionRate: cfg.CommissionRate,
			TaxRate:        cfg.TaxRate,
		},
		Trial: pricing.TrialPolicy{
			TrialPrice:       cfg.TrialPriceCents,
			MaxTrialTeachers: cfg.MaxTrialTeachers,
			LookupBasis:      pricing.TrialLookupBasis(cfg.TrialLookupBasis),
		},
		Ladder:                  pricing.NewDiscountLadder(cfg.PackageDiscountLadder),
		AutoCompleteDelay:       time.Duration(cfg.AutoCompleteDelayHours) * time.Hour,
		ReminderLead:            time.Duration(cfg.ReminderLeadMinutes) * time.Minute,
		FreeCancellationWindow:  time.Duration(cfg.FreeCancellationWindowHours) * time.Hour,
		MaxTeacherReschedules:   cfg.MaxTeacherReschedules,
		RescheduleWindow:        time.Duration(cfg.RescheduleWindowDays) * 24 * time.Hour,
		AbsenceSuspendThreshold: cfg.AbsenceSuspendThreshold,
	}
}
