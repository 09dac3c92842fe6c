package usecase_test

import (
	"context"
	"strings"
	"testing"

	"go-hr-tracker/internal/domain"
	"go-hr-tracker/internal/usecase"
	"go-hr-tracker/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) CountByStage(ctx context.Context, scope domain.Scope) (map[string]int64, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockStatsRepo) CountBySource(ctx context.Context, scope domain.Scope) (map[string]int64, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockStatsRepo) AvgStageDurationSeconds(ctx context.Context, scope domain.Scope) (map[string]float64, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockStatsRepo) AvgCandidatesPerVacancy(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStatsRepo) SLAViolationCount(ctx context.Context, scope domain.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("total equals the sum of per-stage counts", func(t *testing.T) {
		statsRepo := new(MockStatsRepo)
		statsRepo.On("CountByStage", ctx, ownScope(hrCaller.ID)).
			Return(map[string]int64{"open": 3, "interview": 2}, nil)
		statsRepo.On("CountBySource", ctx, ownScope(hrCaller.ID)).
			Return(map[string]int64{"referral": 4, "": 1}, nil)
		statsRepo.On("AvgStageDurationSeconds", ctx, ownScope(hrCaller.ID)).
			Return(map[string]float64{"open": 86400}, nil)
		statsRepo.On("AvgCandidatesPerVacancy", ctx).Return(1.0, nil)
		statsRepo.On("SLAViolationCount", ctx, ownScope(hrCaller.ID)).Return(int64(1), nil)

		uc := usecase.NewStatsUsecase(statsRepo, new(MockResumeRepo), defaultPolicy)
		summary, err := uc.GetSummary(ctx, hrCaller)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), summary.TotalResumes)
		assert.Equal(t, int64(1), summary.ResumesPerSource[""])
		assert.Equal(t, 1.0, summary.AvgCandidatesPerVacancy)
		assert.Equal(t, int64(1), summary.SLAViolations)
	})

	t.Run("team lead aggregates across all uploaders", func(t *testing.T) {
		statsRepo := new(MockStatsRepo)
		statsRepo.On("CountByStage", ctx, allScope()).Return(map[string]int64{"open": 10}, nil)
		statsRepo.On("CountBySource", ctx, allScope()).Return(map[string]int64{}, nil)
		statsRepo.On("AvgStageDurationSeconds", ctx, allScope()).Return(map[string]float64{}, nil)
		statsRepo.On("AvgCandidatesPerVacancy", ctx).Return(0.0, nil)
		statsRepo.On("SLAViolationCount", ctx, allScope()).Return(int64(0), nil)

		uc := usecase.NewStatsUsecase(statsRepo, new(MockResumeRepo), defaultPolicy)
		summary, err := uc.GetSummary(ctx, teamLeadCaller)

		assert.NoError(t, err)
		assert.Equal(t, int64(10), summary.TotalResumes)
		statsRepo.AssertExpectations(t)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		uc := usecase.NewStatsUsecase(new(MockStatsRepo), new(MockResumeRepo), defaultPolicy)
		_, err := uc.GetSummary(ctx, strangerCaller)

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 403, appErr.Code)
	})
}

func TestExportResumes(t *testing.T) {
	ctx := context.Background()
	source := "referral"

	t.Run("csv export contains headers and scoped rows", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("Fetch", ctx, ownScope(hrCaller.ID), mock.AnythingOfType("domain.ResumeFilter")).
			Return([]domain.Resume{
				{ID: 1, CandidateName: "A. Ivanov", Source: &source, CurrentStage: "open", UploadedBy: hrCaller.ID},
			}, nil)

		uc := usecase.NewStatsUsecase(new(MockStatsRepo), resumeRepo, defaultPolicy)
		content, filename, err := uc.ExportResumes(ctx, hrCaller, domain.ResumeFilter{}, domain.ExportFormatCSV)

		assert.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".csv"))
		body := string(content)
		assert.Contains(t, body, "candidate_name")
		assert.Contains(t, body, "A. Ivanov")
		assert.Contains(t, body, "referral")
	})

	t.Run("xlsx is the default format", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("Fetch", ctx, ownScope(hrCaller.ID), mock.AnythingOfType("domain.ResumeFilter")).
			Return([]domain.Resume{}, nil)

		uc := usecase.NewStatsUsecase(new(MockStatsRepo), resumeRepo, defaultPolicy)
		content, filename, err := uc.ExportResumes(ctx, hrCaller, domain.ResumeFilter{}, "")

		assert.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
		assert.NotEmpty(t, content)
	})

	t.Run("unsupported format is rejected", func(t *testing.T) {
		uc := usecase.NewStatsUsecase(new(MockStatsRepo), new(MockResumeRepo), defaultPolicy)
		_, _, err := uc.ExportResumes(ctx, hrCaller, domain.ResumeFilter{}, "pdf")

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
	})
}
