package usecase

import (
	"context"
	"errors"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type resumeUsecase struct {
	resumeRepo  domain.ResumeRepository
	vacancyRepo domain.VacancyRepository
	policy      domain.AccessPolicy
	validate    *validator.Validate
}

func NewResumeUsecase(
	resumeRepo domain.ResumeRepository,
	vacancyRepo domain.VacancyRepository,
	policy domain.AccessPolicy,
	validate *validator.Validate,
) domain.ResumeUsecase {
	return &resumeUsecase{
		resumeRepo:  resumeRepo,
		vacancyRepo: vacancyRepo,
		policy:      policy,
		validate:    validate,
	}
}

// UploadResume records a resume owned by the caller. The vacancy reference
// must exist; the resume starts in "open" unless the input names another
// stage, and the initial ledger entry is written in the same transaction.
func (u *resumeUsecase) UploadResume(ctx context.Context, caller domain.Caller, input domain.UploadResumeInput) (*domain.Resume, error) {
	if !u.policy.CanUploadResume(caller.Role) {
		return nil, apperror.Forbidden("Your role cannot upload resumes")
	}

	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	if _, err := u.vacancyRepo.GetByID(ctx, input.VacancyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.BadRequest("Vacancy does not exist")
		}
		return nil, apperror.Internal(err)
	}

	stage := strings.TrimSpace(input.InitialStage)
	if stage == "" {
		stage = domain.StageOpen
	}

	resume := &domain.Resume{
		CandidateName: input.CandidateName,
		Source:        input.Source,
		CreatedAt:     time.Now(),
		CurrentStage:  stage,
		VacancyID:     input.VacancyID,
		UploadedBy:    caller.ID,
	}
	if err := u.resumeRepo.Create(ctx, resume); err != nil {
		return nil, apperror.Internal(err)
	}
	return resume, nil
}

// TransitionStage advances a resume. The write scope comes from the
// injected policy; a resume outside it yields NotFound rather than
// Forbidden so non-owners cannot probe for existence.
func (u *resumeUsecase) TransitionStage(ctx context.Context, caller domain.Caller, resumeID int64, newStage string) (*domain.Resume, error) {
	newStage = strings.TrimSpace(newStage)
	if newStage == "" {
		return nil, apperror.BadRequest("New stage is required")
	}

	scope, err := u.policy.WriteScope(caller)
	if err != nil {
		return nil, apperror.Forbidden("Unknown role")
	}

	resume, err := u.resumeRepo.TransitionStage(ctx, scope, resumeID, newStage, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Internal(err)
	}
	return resume, nil
}

// ListResumes returns the caller's scoped resume list with the optional
// conjunctive filters applied.
func (u *resumeUsecase) ListResumes(ctx context.Context, caller domain.Caller, filter domain.ResumeFilter) ([]domain.Resume, error) {
	scope, err := u.policy.ReadScope(caller)
	if err != nil {
		return nil, apperror.Forbidden("Unknown role")
	}

	if err := validateFilter(&filter); err != nil {
		return nil, err
	}

	resumes, err := u.resumeRepo.Fetch(ctx, scope, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

func (u *resumeUsecase) GetStageHistory(ctx context.Context, caller domain.Caller, resumeID int64) ([]domain.StageEntry, error) {
	scope, err := u.policy.ReadScope(caller)
	if err != nil {
		return nil, apperror.Forbidden("Unknown role")
	}

	// Resolve the resume within the read scope first so hidden resumes
	// stay hidden.
	if _, err := u.resumeRepo.GetByID(ctx, scope, resumeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Internal(err)
	}

	entries, err := u.resumeRepo.GetStageHistory(ctx, resumeID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}

// validateFilter normalizes sort parameters and rejects unsupported keys.
func validateFilter(filter *domain.ResumeFilter) error {
	switch filter.SortBy {
	case "":
		filter.SortBy = domain.SortByCreatedAt
	case domain.SortByCreatedAt, domain.SortBySLADue:
	default:
		return apperror.BadRequest("Unsupported sort key: " + filter.SortBy)
	}

	switch filter.SortOrder {
	case "":
		filter.SortOrder = "asc"
	case "asc", "desc":
	default:
		return apperror.BadRequest("Sort order must be asc or desc")
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return apperror.BadRequest("End date cannot precede start date")
	}
	return nil
}
