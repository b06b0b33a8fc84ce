package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tutorhub/internal/model"
)

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, name, absence_count, suspension_flagged, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher model.Teacher
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.AbsenceCount,
		&teacher.SuspensionFlagged,
		&teacher.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}

// GetRateCard получает прайс учителя: длительность -> цена в центах
func (r *TeacherRepository) GetRateCard(ctx context.Context, teacherID int64) (model.RateCard, error) {
	query := `
		SELECT duration_minutes, price
		FROM rate_cards
		WHERE teacher_id = $1
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get rate card: %w", err)
	}
	defer rows.Close()

	prices := make(map[int]int64)
	for rows.Next() {
		var duration int
		var price int64
		if err := rows.Scan(&duration, &price); err != nil {
			return nil, fmt.Errorf("scan rate card row: %w", err)
		}
		prices[duration] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rate card: %w", err)
	}

	if len(prices) == 0 {
		return nil, nil
	}

	return model.NewRateCard(prices)
}

// GetPackageOffers получает офферы учителя на пакеты уроков
func (r *TeacherRepository) GetPackageOffers(ctx context.Context, teacherID int64) ([]model.PackageOffer, error) {
	query := `
		SELECT id, teacher_id, lesson_count, discount_percent
		FROM package_offers
		WHERE teacher_id = $1
		ORDER BY lesson_count ASC
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get package offers: %w", err)
	}
	defer rows.Close()

	var offers []model.PackageOffer
	for rows.Next() {
		var offer model.PackageOffer
		if err := rows.Scan(&offer.ID, &offer.TeacherID, &offer.LessonCount, &offer.DiscountPercent); err != nil {
			return nil, fmt.Errorf("scan package offer: %w", err)
		}
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

// GetGroupRates получает цены учителя на групповые уроки
func (r *TeacherRepository) GetGroupRates(ctx context.Context, teacherID int64) ([]model.GroupRate, error) {
	query := `
		SELECT id, teacher_id, group_size, price_per_person
		FROM group_rates
		WHERE teacher_id = $1
		ORDER BY group_size ASC
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get group rates: %w", err)
	}
	defer rows.Close()

	var rates []model.GroupRate
	for rows.Next() {
		var rate model.GroupRate
		if err := rows.Scan(&rate.ID, &rate.TeacherID, &rate.GroupSize, &rate.PricePerPerson); err != nil {
			return nil, fmt.Errorf("scan group rate: %w", err)
		}
		rates = append(rates, rate)
	}

	return rates, rows.Err()
}

// IncrementAbsence увеличивает счётчик прогулов учителя и возвращает обновлённого
// учителя. При достижении порога аккаунт помечается для блокировки, само решение
// о блокировке принимает админка.
func (r *TeacherRepository) IncrementAbsence(ctx context.Context, teacherID int64, suspendThreshold int) (*model.Teacher, error) {
	query := `
		UPDATE teachers
		SET absence_count = absence_count + 1,
			suspension_flagged = suspension_flagged OR (absence_count + 1 >= $2)
		WHERE id = $1
		RETURNING id, name, absence_count, suspension_flagged, created_at
	`

	var teacher model.Teacher
	err := r.pool.QueryRow(ctx, query, teacherID, suspendThreshold).Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.AbsenceCount,
		&teacher.SuspensionFlagged,
		&teacher.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("increment teacher absence: %w", err)
	}

	return &teacher, nil
}
