package usecase

import (
	"context"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"strings"
	"time"
)

type vacancyUsecase struct {
	vacancyRepo domain.VacancyRepository
	policy      domain.AccessPolicy
}

func NewVacancyUsecase(vacancyRepo domain.VacancyRepository, policy domain.AccessPolicy) domain.VacancyUsecase {
	return &vacancyUsecase{vacancyRepo: vacancyRepo, policy: policy}
}

// CreateVacancy records a vacancy. Team leads only, unconditionally.
func (u *vacancyUsecase) CreateVacancy(ctx context.Context, caller domain.Caller, title string) (*domain.Vacancy, error) {
	if !u.policy.CanManageVacancies(caller.Role) {
		return nil, apperror.Forbidden("Only team leads can create vacancies")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.BadRequest("Title is required")
	}

	vacancy := &domain.Vacancy{
		Title:     title,
		CreatedBy: caller.ID,
		CreatedAt: time.Now(),
	}
	if err := u.vacancyRepo.Create(ctx, vacancy); err != nil {
		return nil, apperror.Internal(err)
	}
	return vacancy, nil
}

func (u *vacancyUsecase) ListVacancies(ctx context.Context, caller domain.Caller) ([]domain.Vacancy, error) {
	// Any known role may browse vacancies
	if _, err := u.policy.ReadScope(caller); err != nil {
		return nil, apperror.Forbidden("Unknown role")
	}
	vacancies, err := u.vacancyRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return vacancies, nil
}
