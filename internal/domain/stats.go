package domain

import "context"

// StatsSummary is the consolidated statistics payload. Map keys are
// case-sensitive stage/source labels; the empty source key groups resumes
// uploaded without a source.
type StatsSummary struct {
	ResumesPerStage         map[string]int64   `json:"resumes_per_stage"`
	ResumesPerSource        map[string]int64   `json:"resumes_per_source"`
	TotalResumes            int64              `json:"total_resumes"`
	AvgStageDurationSeconds map[string]float64 `json:"avg_stage_duration_seconds"`
	AvgCandidatesPerVacancy float64            `json:"avg_candidates_per_vacancy"`
	SLAViolations           int64              `json:"sla_violations"`
}

// Export formats for the resume export endpoint.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// StatsRepository computes read-only aggregates over resumes and the stage
// ledger. None of these mutate stored state.
type StatsRepository interface {
	CountByStage(ctx context.Context, scope Scope) (map[string]int64, error)
	CountBySource(ctx context.Context, scope Scope) (map[string]int64, error)
	// AvgStageDurationSeconds averages true dwell time per stage: the gap
	// between consecutive ledger entries of the same resume, with the open
	// (latest) entry measured up to now.
	AvgStageDurationSeconds(ctx context.Context, scope Scope) (map[string]float64, error)
	AvgCandidatesPerVacancy(ctx context.Context) (float64, error)
	// SLAViolationCount counts resumes whose dwell in their current stage
	// exceeds the configured max_days. Stages without an SLA never violate.
	SLAViolationCount(ctx context.Context, scope Scope) (int64, error)
}

type StatsUsecase interface {
	GetSummary(ctx context.Context, caller Caller) (*StatsSummary, error)
	// ExportResumes renders the caller's scoped resume list as a file.
	// Returns content, filename, error.
	ExportResumes(ctx context.Context, caller Caller, filter ResumeFilter, format string) ([]byte, string, error)
}
