package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// StageOpen is the stage every resume starts in unless the uploader
// names another one.
const StageOpen = "open"

// Resume is the current-state record of a submitted resume. CurrentStage
// is the denormalized latest value; the authoritative timeline lives in
// resume_stages.
type Resume struct {
	ID            int64     `json:"id"`
	CandidateName string    `json:"candidate_name"`
	Source        *string   `json:"source,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CurrentStage  string    `json:"current_stage"`
	VacancyID     int64     `json:"vacancy_id"`
	UploadedBy    int64     `json:"uploaded_by"`

	// Joined data for list responses
	VacancyTitle *string `json:"vacancy_title,omitempty"`
}

// StageEntry is one row of the append-only stage history ledger. Entries
// are never edited or removed; repeated identical stages are legal.
type StageEntry struct {
	ID        int64     `json:"id"`
	ResumeID  int64     `json:"resume_id"`
	Stage     string    `json:"stage"`
	EnteredAt time.Time `json:"entered_at"`
}

// Sort keys accepted by ResumeFilter.SortBy.
const (
	SortByCreatedAt = "created_at"
	SortBySLADue    = "sla_due"
)

// ResumeFilter holds the optional, conjunctive list filters. Date bounds
// are inclusive on both ends.
type ResumeFilter struct {
	Stage     *string    `json:"stage,omitempty"`
	VacancyID *int64     `json:"vacancy_id,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	SortBy    string     `json:"sort_by,omitempty"`    // created_at, sla_due
	SortOrder string     `json:"sort_order,omitempty"` // asc, desc
}

type ResumeRepository interface {
	// Create inserts the resume and its initial stage entry atomically.
	Create(ctx context.Context, resume *Resume) error
	// TransitionStage updates current_stage and appends a ledger entry in
	// one transaction. Returns ErrNotFound when no resume matches id
	// within scope.
	TransitionStage(ctx context.Context, scope Scope, id int64, newStage string, at time.Time) (*Resume, error)
	GetByID(ctx context.Context, scope Scope, id int64) (*Resume, error)
	Fetch(ctx context.Context, scope Scope, filter ResumeFilter) ([]Resume, error)
	GetStageHistory(ctx context.Context, resumeID int64) ([]StageEntry, error)
}

type ResumeUsecase interface {
	UploadResume(ctx context.Context, caller Caller, input UploadResumeInput) (*Resume, error)
	TransitionStage(ctx context.Context, caller Caller, resumeID int64, newStage string) (*Resume, error)
	ListResumes(ctx context.Context, caller Caller, filter ResumeFilter) ([]Resume, error)
	GetStageHistory(ctx context.Context, caller Caller, resumeID int64) ([]StageEntry, error)
}

// UploadResumeInput is the validated payload for resume upload.
type UploadResumeInput struct {
	CandidateName string  `json:"candidate_name" validate:"required,min=1,max=255"`
	Source        *string `json:"source,omitempty" validate:"omitempty,max=255"`
	VacancyID     int64   `json:"vacancy_id" validate:"required,gt=0"`
	InitialStage  string  `json:"initial_stage,omitempty" validate:"omitempty,min=1,max=100"`
}
