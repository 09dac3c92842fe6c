package postgres

import (
	"context"
	"errors"
	"go-hr-tracker/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vacancyRepo struct {
	db *pgxpool.Pool
}

func NewVacancyRepository(db *pgxpool.Pool) domain.VacancyRepository {
	return &vacancyRepo{db: db}
}

func (r *vacancyRepo) Create(ctx context.Context, vacancy *domain.Vacancy) error {
	if vacancy.CreatedAt.IsZero() {
		vacancy.CreatedAt = time.Now()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO vacancies (title, created_by, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		vacancy.Title, vacancy.CreatedBy, vacancy.CreatedAt,
	).Scan(&vacancy.ID)
}

func (r *vacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	var vacancy domain.Vacancy
	err := r.db.QueryRow(ctx, `
		SELECT id, title, created_by, created_at
		FROM vacancies WHERE id = $1`, id,
	).Scan(&vacancy.ID, &vacancy.Title, &vacancy.CreatedBy, &vacancy.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &vacancy, nil
}

func (r *vacancyRepo) Fetch(ctx context.Context) ([]domain.Vacancy, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, created_by, created_at
		FROM vacancies
		ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vacancies []domain.Vacancy
	for rows.Next() {
		var vacancy domain.Vacancy
		if err := rows.Scan(&vacancy.ID, &vacancy.Title, &vacancy.CreatedBy, &vacancy.CreatedAt); err != nil {
			return nil, err
		}
		vacancies = append(vacancies, vacancy)
	}
	if vacancies == nil {
		vacancies = []domain.Vacancy{}
	}
	return vacancies, rows.Err()
}
