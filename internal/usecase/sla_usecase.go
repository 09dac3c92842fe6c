package usecase

import (
	"context"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"sort"
	"strings"
	"time"
)

type slaUsecase struct {
	slaRepo domain.SLARepository
	policy  domain.AccessPolicy
}

func NewSLAUsecase(slaRepo domain.SLARepository, policy domain.AccessPolicy) domain.SLAUsecase {
	return &slaUsecase{slaRepo: slaRepo, policy: policy}
}

func (u *slaUsecase) GetSettings(ctx context.Context, caller domain.Caller) ([]domain.SLASetting, error) {
	if !u.policy.CanConfigureSLA(caller.Role) {
		return nil, apperror.Forbidden("Only team leads can view SLA settings")
	}
	settings, err := u.slaRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return settings, nil
}

// SetSettings upserts every stage in the mapping. Stages are processed in
// sorted order so repeated calls behave deterministically.
func (u *slaUsecase) SetSettings(ctx context.Context, caller domain.Caller, settings map[string]int) ([]domain.SLASetting, error) {
	if !u.policy.CanConfigureSLA(caller.Role) {
		return nil, apperror.Forbidden("Only team leads can configure SLA settings")
	}
	if len(settings) == 0 {
		return nil, apperror.BadRequest("At least one stage setting is required")
	}

	stages := make([]string, 0, len(settings))
	for stage, maxDays := range settings {
		if strings.TrimSpace(stage) == "" {
			return nil, apperror.BadRequest("Stage name cannot be empty")
		}
		if maxDays < 1 {
			return nil, apperror.BadRequest("max_days must be at least 1 for stage " + stage)
		}
		stages = append(stages, stage)
	}
	sort.Strings(stages)

	now := time.Now()
	applied := make([]domain.SLASetting, 0, len(stages))
	for _, stage := range stages {
		setting := domain.SLASetting{
			Stage:   stage,
			MaxDays: settings[stage],
			SetBy:   caller.ID,
			SetAt:   now,
		}
		if err := u.slaRepo.Upsert(ctx, &setting); err != nil {
			return nil, apperror.Internal(err)
		}
		applied = append(applied, setting)
	}
	return applied, nil
}
