package domain

import (
	"context"
	"time"
)

// Vacancy is immutable after creation.
type Vacancy struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type VacancyRepository interface {
	Create(ctx context.Context, vacancy *Vacancy) error
	GetByID(ctx context.Context, id int64) (*Vacancy, error)
	Fetch(ctx context.Context) ([]Vacancy, error)
}

type VacancyUsecase interface {
	CreateVacancy(ctx context.Context, caller Caller, title string) (*Vacancy, error)
	ListVacancies(ctx context.Context, caller Caller) ([]Vacancy, error)
}
