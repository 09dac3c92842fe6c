package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-hr-tracker/internal/domain"
	"go-hr-tracker/internal/usecase"
	"go-hr-tracker/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	return m.Called(ctx, resume).Error(0)
}

func (m *MockResumeRepo) TransitionStage(ctx context.Context, scope domain.Scope, id int64, newStage string, at time.Time) (*domain.Resume, error) {
	args := m.Called(ctx, scope, id, newStage, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Resume, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Fetch(ctx context.Context, scope domain.Scope, filter domain.ResumeFilter) ([]domain.Resume, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) GetStageHistory(ctx context.Context, resumeID int64) ([]domain.StageEntry, error) {
	args := m.Called(ctx, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageEntry), args.Error(1)
}

type MockVacancyRepo struct {
	mock.Mock
}

func (m *MockVacancyRepo) Create(ctx context.Context, vacancy *domain.Vacancy) error {
	return m.Called(ctx, vacancy).Error(0)
}

func (m *MockVacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vacancy), args.Error(1)
}

func (m *MockVacancyRepo) Fetch(ctx context.Context) ([]domain.Vacancy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vacancy), args.Error(1)
}

type MockSLARepo struct {
	mock.Mock
}

func (m *MockSLARepo) Upsert(ctx context.Context, setting *domain.SLASetting) error {
	return m.Called(ctx, setting).Error(0)
}

func (m *MockSLARepo) Fetch(ctx context.Context) ([]domain.SLASetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SLASetting), args.Error(1)
}

var (
	hrCaller       = domain.Caller{ID: 2, Role: domain.RoleHR}
	teamLeadCaller = domain.Caller{ID: 1, Role: domain.RoleTeamLead}
	strangerCaller = domain.Caller{ID: 9, Role: "contractor"}

	defaultPolicy = domain.AccessPolicy{TeamLeadWritesAll: true}
)

func ownScope(id int64) interface{} {
	return mock.MatchedBy(func(s domain.Scope) bool {
		return !s.All() && *s.OwnerID == id
	})
}

func allScope() interface{} {
	return mock.MatchedBy(func(s domain.Scope) bool {
		return s.All()
	})
}

func newResumeUC(resumeRepo *MockResumeRepo, vacancyRepo *MockVacancyRepo, policy domain.AccessPolicy) domain.ResumeUsecase {
	return usecase.NewResumeUsecase(resumeRepo, vacancyRepo, policy, validator.New())
}

func TestUploadResume(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects missing vacancy reference", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		vacancyRepo := new(MockVacancyRepo)
		vacancyRepo.On("GetByID", ctx, int64(42)).Return(nil, domain.ErrNotFound)

		uc := newResumeUC(resumeRepo, vacancyRepo, defaultPolicy)
		_, err := uc.UploadResume(ctx, hrCaller, domain.UploadResumeInput{
			CandidateName: "A. Ivanov",
			VacancyID:     42,
		})

		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
		resumeRepo.AssertNotCalled(t, "Create")
	})

	t.Run("defaults to the open stage and records ownership", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		vacancyRepo := new(MockVacancyRepo)
		vacancyRepo.On("GetByID", ctx, int64(42)).Return(&domain.Vacancy{ID: 42}, nil)
		resumeRepo.On("Create", ctx, mock.AnythingOfType("*domain.Resume")).Return(nil).Run(func(args mock.Arguments) {
			resume := args.Get(1).(*domain.Resume)
			assert.Equal(t, domain.StageOpen, resume.CurrentStage)
			assert.Equal(t, hrCaller.ID, resume.UploadedBy)
		})

		uc := newResumeUC(resumeRepo, vacancyRepo, defaultPolicy)
		resume, err := uc.UploadResume(ctx, hrCaller, domain.UploadResumeInput{
			CandidateName: "A. Ivanov",
			VacancyID:     42,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StageOpen, resume.CurrentStage)
		resumeRepo.AssertExpectations(t)
	})

	t.Run("keeps an explicit initial stage", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		vacancyRepo := new(MockVacancyRepo)
		vacancyRepo.On("GetByID", ctx, int64(42)).Return(&domain.Vacancy{ID: 42}, nil)
		resumeRepo.On("Create", ctx, mock.AnythingOfType("*domain.Resume")).Return(nil)

		uc := newResumeUC(resumeRepo, vacancyRepo, defaultPolicy)
		resume, err := uc.UploadResume(ctx, hrCaller, domain.UploadResumeInput{
			CandidateName: "B. Petrov",
			VacancyID:     42,
			InitialStage:  "screening",
		})

		assert.NoError(t, err)
		assert.Equal(t, "screening", resume.CurrentStage)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		uc := newResumeUC(new(MockResumeRepo), new(MockVacancyRepo), defaultPolicy)
		_, err := uc.UploadResume(ctx, strangerCaller, domain.UploadResumeInput{
			CandidateName: "C. Sidorov",
			VacancyID:     42,
		})

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("rejects empty candidate name", func(t *testing.T) {
		uc := newResumeUC(new(MockResumeRepo), new(MockVacancyRepo), defaultPolicy)
		_, err := uc.UploadResume(ctx, hrCaller, domain.UploadResumeInput{VacancyID: 42})
		assert.Error(t, err)
	})
}

func TestTransitionStage(t *testing.T) {
	ctx := context.Background()

	t.Run("hr transitions within own scope", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("TransitionStage", ctx, ownScope(hrCaller.ID), int64(5), "interview", mock.AnythingOfType("time.Time")).
			Return(&domain.Resume{ID: 5, CurrentStage: "interview"}, nil)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		resume, err := uc.TransitionStage(ctx, hrCaller, 5, "interview")

		assert.NoError(t, err)
		assert.Equal(t, "interview", resume.CurrentStage)
		resumeRepo.AssertExpectations(t)
	})

	t.Run("non-owner gets NotFound, not Forbidden", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("TransitionStage", ctx, ownScope(hrCaller.ID), int64(5), "interview", mock.AnythingOfType("time.Time")).
			Return(nil, domain.ErrNotFound)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		_, err := uc.TransitionStage(ctx, hrCaller, 5, "interview")

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("team lead gets the unrestricted write scope when configured", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("TransitionStage", ctx, allScope(), int64(5), "offer", mock.AnythingOfType("time.Time")).
			Return(&domain.Resume{ID: 5, CurrentStage: "offer"}, nil)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		_, err := uc.TransitionStage(ctx, teamLeadCaller, 5, "offer")

		assert.NoError(t, err)
		resumeRepo.AssertExpectations(t)
	})

	t.Run("owner-only policy narrows the team lead scope", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("TransitionStage", ctx, ownScope(teamLeadCaller.ID), int64(5), "offer", mock.AnythingOfType("time.Time")).
			Return(nil, domain.ErrNotFound)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), domain.AccessPolicy{TeamLeadWritesAll: false})
		_, err := uc.TransitionStage(ctx, teamLeadCaller, 5, "offer")

		assert.Error(t, err)
		resumeRepo.AssertExpectations(t)
	})

	t.Run("rejects empty stage", func(t *testing.T) {
		uc := newResumeUC(new(MockResumeRepo), new(MockVacancyRepo), defaultPolicy)
		_, err := uc.TransitionStage(ctx, hrCaller, 5, "  ")
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
	})
}

func TestListResumes(t *testing.T) {
	ctx := context.Background()

	t.Run("hr lists within own scope", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("Fetch", ctx, ownScope(hrCaller.ID), mock.AnythingOfType("domain.ResumeFilter")).
			Return([]domain.Resume{{ID: 1, UploadedBy: hrCaller.ID}}, nil)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		resumes, err := uc.ListResumes(ctx, hrCaller, domain.ResumeFilter{})

		assert.NoError(t, err)
		assert.Len(t, resumes, 1)
		resumeRepo.AssertExpectations(t)
	})

	t.Run("team lead lists everything", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("Fetch", ctx, allScope(), mock.AnythingOfType("domain.ResumeFilter")).
			Return([]domain.Resume{{ID: 1}, {ID: 2}}, nil)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		resumes, err := uc.ListResumes(ctx, teamLeadCaller, domain.ResumeFilter{})

		assert.NoError(t, err)
		assert.Len(t, resumes, 2)
	})

	t.Run("rejects unsupported sort keys", func(t *testing.T) {
		uc := newResumeUC(new(MockResumeRepo), new(MockVacancyRepo), defaultPolicy)
		_, err := uc.ListResumes(ctx, hrCaller, domain.ResumeFilter{SortBy: "candidate_name"})

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("defaults sorting to created_at ascending", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("Fetch", ctx, ownScope(hrCaller.ID), mock.MatchedBy(func(f domain.ResumeFilter) bool {
			return f.SortBy == domain.SortByCreatedAt && f.SortOrder == "asc"
		})).Return([]domain.Resume{}, nil)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		_, err := uc.ListResumes(ctx, hrCaller, domain.ResumeFilter{})

		assert.NoError(t, err)
		resumeRepo.AssertExpectations(t)
	})

	t.Run("rejects inverted date bounds", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)

		uc := newResumeUC(new(MockResumeRepo), new(MockVacancyRepo), defaultPolicy)
		_, err := uc.ListResumes(ctx, hrCaller, domain.ResumeFilter{StartDate: &start, EndDate: &end})
		assert.Error(t, err)
	})
}

func TestGetStageHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the resume within the read scope first", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("GetByID", ctx, ownScope(hrCaller.ID), int64(5)).Return(nil, domain.ErrNotFound)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		_, err := uc.GetStageHistory(ctx, hrCaller, 5)

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
		resumeRepo.AssertNotCalled(t, "GetStageHistory")
	})

	t.Run("returns ledger entries for a visible resume", func(t *testing.T) {
		resumeRepo := new(MockResumeRepo)
		resumeRepo.On("GetByID", ctx, ownScope(hrCaller.ID), int64(5)).
			Return(&domain.Resume{ID: 5, UploadedBy: hrCaller.ID}, nil)
		resumeRepo.On("GetStageHistory", ctx, int64(5)).Return([]domain.StageEntry{
			{ID: 1, ResumeID: 5, Stage: domain.StageOpen},
			{ID: 2, ResumeID: 5, Stage: "interview"},
		}, nil)

		uc := newResumeUC(resumeRepo, new(MockVacancyRepo), defaultPolicy)
		entries, err := uc.GetStageHistory(ctx, hrCaller, 5)

		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, domain.StageOpen, entries[0].Stage)
	})
}

func TestCreateVacancy(t *testing.T) {
	ctx := context.Background()

	t.Run("team lead creates a vacancy", func(t *testing.T) {
		vacancyRepo := new(MockVacancyRepo)
		vacancyRepo.On("Create", ctx, mock.AnythingOfType("*domain.Vacancy")).Return(nil).Run(func(args mock.Arguments) {
			vacancy := args.Get(1).(*domain.Vacancy)
			assert.Equal(t, teamLeadCaller.ID, vacancy.CreatedBy)
		})

		uc := usecase.NewVacancyUsecase(vacancyRepo, defaultPolicy)
		vacancy, err := uc.CreateVacancy(ctx, teamLeadCaller, "Backend Engineer")

		assert.NoError(t, err)
		assert.Equal(t, "Backend Engineer", vacancy.Title)
		vacancyRepo.AssertExpectations(t)
	})

	t.Run("hr cannot create vacancies", func(t *testing.T) {
		vacancyRepo := new(MockVacancyRepo)
		uc := usecase.NewVacancyUsecase(vacancyRepo, defaultPolicy)

		_, err := uc.CreateVacancy(ctx, hrCaller, "Backend Engineer")

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 403, appErr.Code)
		vacancyRepo.AssertNotCalled(t, "Create")
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		uc := usecase.NewVacancyUsecase(new(MockVacancyRepo), defaultPolicy)
		_, err := uc.CreateVacancy(ctx, teamLeadCaller, "   ")
		assert.Error(t, err)
	})
}

func TestSLASettings(t *testing.T) {
	ctx := context.Background()

	t.Run("hr cannot configure SLA", func(t *testing.T) {
		uc := usecase.NewSLAUsecase(new(MockSLARepo), defaultPolicy)
		_, err := uc.SetSettings(ctx, hrCaller, map[string]int{"open": 2})

		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("set upserts every stage once", func(t *testing.T) {
		slaRepo := new(MockSLARepo)
		slaRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.SLASetting")).Return(nil)

		uc := usecase.NewSLAUsecase(slaRepo, defaultPolicy)
		settings, err := uc.SetSettings(ctx, teamLeadCaller, map[string]int{"open": 2, "interview": 5})

		assert.NoError(t, err)
		assert.Len(t, settings, 2)
		slaRepo.AssertNumberOfCalls(t, "Upsert", 2)
		// Deterministic order
		assert.Equal(t, "interview", settings[0].Stage)
		assert.Equal(t, "open", settings[1].Stage)
	})

	t.Run("max_days below one is rejected", func(t *testing.T) {
		slaRepo := new(MockSLARepo)
		uc := usecase.NewSLAUsecase(slaRepo, defaultPolicy)

		_, err := uc.SetSettings(ctx, teamLeadCaller, map[string]int{"open": 0})

		assert.Error(t, err)
		slaRepo.AssertNotCalled(t, "Upsert")
	})

	t.Run("empty mapping is rejected", func(t *testing.T) {
		uc := usecase.NewSLAUsecase(new(MockSLARepo), defaultPolicy)
		_, err := uc.SetSettings(ctx, teamLeadCaller, map[string]int{})
		assert.Error(t, err)
	})
}
