package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	HTTPAddr       string
	Environment    string
	MigrationsPath string

	// Ставки платформы
	CommissionRate float64 // Доля платформы от базовой цены
	TaxRate        float64 // Налог, добавляемый к сумме студента

	// Пробные уроки
	TrialPriceCents  int64
	MaxTrialTeachers int
	TrialLookupBasis string // "flag" или "price"

	// Пакеты: дефолтная лестница скидок, количество -> доля
	PackageDiscountLadder map[int]float64

	// Жизненный цикл урока
	AutoCompleteDelayHours      int
	ReminderLeadMinutes         int
	FreeCancellationWindowHours int
	MaxTeacherReschedules       int
	RescheduleWindowDays        int
	AbsenceSuspendThreshold     int
	SchedulerIntervalSeconds    int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		Environment:    getEnv("ENV", "development"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		CommissionRate: getEnvFloat("COMMISSION_RATE", 0.20),
		TaxRate:        getEnvFloat("TAX_RATE", 0.10),

		TrialPriceCents:  getEnvInt64("TRIAL_PRICE_CENTS", 500),
		MaxTrialTeachers: getEnvInt("MAX_TRIAL_TEACHERS", 3),
		TrialLookupBasis: getEnv("TRIAL_LOOKUP_BASIS", "flag"),

		AutoCompleteDelayHours:      getEnvInt("AUTO_COMPLETE_DELAY_HOURS", 48),
		ReminderLeadMinutes:         getEnvInt("REMINDER_LEAD_MINUTES", 30),
		FreeCancellationWindowHours: getEnvInt("FREE_CANCELLATION_WINDOW_HOURS", 12),
		MaxTeacherReschedules:       getEnvInt("MAX_TEACHER_RESCHEDULES", 1),
		RescheduleWindowDays:        getEnvInt("RESCHEDULE_WINDOW_DAYS", 7),
		AbsenceSuspendThreshold:     getEnvInt("ABSENCE_SUSPEND_THRESHOLD", 3),
		SchedulerIntervalSeconds:    getEnvInt("SCHEDULER_INTERVAL_SECONDS", 60),
	}

	ladder, err := ParseDiscountLadder(getEnv("PACKAGE_DISCOUNT_LADDER", "5:0.05,10:0.10,20:0.15"))
	if err != nil {
		return nil, fmt.Errorf("parse PACKAGE_DISCOUNT_LADDER: %w", err)
	}
	cfg.PackageDiscountLadder = ladder

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	if cfg.TrialLookupBasis != "flag" && cfg.TrialLookupBasis != "price" {
		return nil, fmt.Errorf("TRIAL_LOOKUP_BASIS must be 'flag' or 'price', got %q", cfg.TrialLookupBasis)
	}

	return cfg, nil
}

// ParseDiscountLadder разбирает строку вида "5:0.05,10:0.10,20:0.15"
func ParseDiscountLadder(raw string) (map[int]float64, error) {
	ladder := make(map[int]float64)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid tier %q", pair)
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in tier %q: %w", pair, err)
		}
		percent, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percent in tier %q: %w", pair, err)
		}
		if percent < 0 || percent >= 1 {
			return nil, fmt.Errorf("percent in tier %q out of range [0, 1)", pair)
		}
		ladder[quantity] = percent
	}
	if len(ladder) == 0 {
		return nil, fmt.Errorf("discount ladder is empty")
	}
	return ladder, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %f", key, value, fallback)
		return fallback
	}
	return parsed
}
