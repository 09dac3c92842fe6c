package domain

import (
	"context"
	"time"
)

// SLASetting is the per-stage dwell limit. One row per stage; setting an
// existing stage overwrites max_days/set_by/set_at.
type SLASetting struct {
	ID      int64     `json:"id"`
	Stage   string    `json:"stage"`
	MaxDays int       `json:"max_days"`
	SetBy   int64     `json:"set_by"`
	SetAt   time.Time `json:"set_at"`
}

type SLARepository interface {
	Upsert(ctx context.Context, setting *SLASetting) error
	Fetch(ctx context.Context) ([]SLASetting, error)
}

type SLAUsecase interface {
	GetSettings(ctx context.Context, caller Caller) ([]SLASetting, error)
	// SetSettings upserts every stage in the mapping.
	SetSettings(ctx context.Context, caller Caller, settings map[string]int) ([]SLASetting, error)
}
