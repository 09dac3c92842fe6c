package postgres

import (
	"context"
	"errors"
	"fmt"
	"go-hr-tracker/internal/domain"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

// NewResumeRepository creates a new resume repository
func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

// Create inserts the resume and its initial stage ledger entry in a single
// transaction, so current_stage can never exist without a matching ledger
// row. The initial entry's entered_at equals the resume's created_at.
func (r *resumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = time.Now()
	}
	if resume.CurrentStage == "" {
		resume.CurrentStage = domain.StageOpen
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO resumes (candidate_name, source, created_at, current_stage, vacancy_id, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		resume.CandidateName, resume.Source, resume.CreatedAt,
		resume.CurrentStage, resume.VacancyID, resume.UploadedBy,
	).Scan(&resume.ID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO resume_stages (resume_id, stage, entered_at)
		VALUES ($1, $2, $3)`,
		resume.ID, resume.CurrentStage, resume.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// TransitionStage updates current_stage and appends the ledger entry
// atomically. The scope's owner clause is what hides other users' resumes:
// a non-matching owner produces the same ErrNotFound as a missing id.
// Transitioning to the stage the resume already occupies is legal and still
// recorded in the ledger.
func (r *resumeRepo) TransitionStage(ctx context.Context, scope domain.Scope, id int64, newStage string, at time.Time) (*domain.Resume, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE resumes SET current_stage = $2 WHERE id = $1
		RETURNING id, candidate_name, source, created_at, current_stage, vacancy_id, uploaded_by`
	args := []interface{}{id, newStage}
	if !scope.All() {
		query = `
		UPDATE resumes SET current_stage = $2 WHERE id = $1 AND uploaded_by = $3
		RETURNING id, candidate_name, source, created_at, current_stage, vacancy_id, uploaded_by`
		args = append(args, *scope.OwnerID)
	}

	var resume domain.Resume
	err = tx.QueryRow(ctx, query, args...).Scan(
		&resume.ID, &resume.CandidateName, &resume.Source, &resume.CreatedAt,
		&resume.CurrentStage, &resume.VacancyID, &resume.UploadedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO resume_stages (resume_id, stage, entered_at)
		VALUES ($1, $2, $3)`,
		resume.ID, newStage, at,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &resume, nil
}

// GetByID retrieves a resume visible within scope
func (r *resumeRepo) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Resume, error) {
	query := `
		SELECT r.id, r.candidate_name, r.source, r.created_at, r.current_stage, r.vacancy_id, r.uploaded_by, v.title
		FROM resumes r
		LEFT JOIN vacancies v ON r.vacancy_id = v.id
		WHERE r.id = $1`
	args := []interface{}{id}
	if !scope.All() {
		query += ` AND r.uploaded_by = $2`
		args = append(args, *scope.OwnerID)
	}

	var resume domain.Resume
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&resume.ID, &resume.CandidateName, &resume.Source, &resume.CreatedAt,
		&resume.CurrentStage, &resume.VacancyID, &resume.UploadedBy, &resume.VacancyTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &resume, nil
}

// Fetch lists resumes within scope, applying the conjunctive optional
// filters. Ordering is stable: equal sort keys tie-break on id ascending.
func (r *resumeRepo) Fetch(ctx context.Context, scope domain.Scope, filter domain.ResumeFilter) ([]domain.Resume, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if !scope.All() {
		conditions = append(conditions, fmt.Sprintf("r.uploaded_by = $%d", argIndex))
		args = append(args, *scope.OwnerID)
		argIndex++
	}

	if filter.Stage != nil {
		conditions = append(conditions, fmt.Sprintf("r.current_stage = $%d", argIndex))
		args = append(args, *filter.Stage)
		argIndex++
	}

	if filter.VacancyID != nil {
		conditions = append(conditions, fmt.Sprintf("r.vacancy_id = $%d", argIndex))
		args = append(args, *filter.VacancyID)
		argIndex++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("r.created_at >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("r.created_at <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Sorting. sla_due orders by the SLA due date of the current stage;
	// stages without a configured SLA fall back to created_at (max_days 0).
	sortColumn := "r.created_at"
	if filter.SortBy == domain.SortBySLADue {
		sortColumn = "r.created_at + make_interval(days => COALESCE(s.max_days, 0))"
	}
	sortDir := "ASC"
	if filter.SortOrder == "desc" {
		sortDir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.candidate_name, r.source, r.created_at, r.current_stage, r.vacancy_id, r.uploaded_by, v.title
		FROM resumes r
		LEFT JOIN vacancies v ON r.vacancy_id = v.id
		LEFT JOIN sla_settings s ON s.stage = r.current_stage
		WHERE %s
		ORDER BY %s %s, r.id ASC`, whereClause, sortColumn, sortDir)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []domain.Resume
	for rows.Next() {
		var resume domain.Resume
		if err := rows.Scan(
			&resume.ID, &resume.CandidateName, &resume.Source, &resume.CreatedAt,
			&resume.CurrentStage, &resume.VacancyID, &resume.UploadedBy, &resume.VacancyTitle,
		); err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	if resumes == nil {
		resumes = []domain.Resume{}
	}
	return resumes, rows.Err()
}

// GetStageHistory returns the resume's ledger entries ordered by entry time
func (r *resumeRepo) GetStageHistory(ctx context.Context, resumeID int64) ([]domain.StageEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, resume_id, stage, entered_at
		FROM resume_stages
		WHERE resume_id = $1
		ORDER BY entered_at ASC, id ASC`, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StageEntry
	for rows.Next() {
		var entry domain.StageEntry
		if err := rows.Scan(&entry.ID, &entry.ResumeID, &entry.Stage, &entry.EnteredAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if entries == nil {
		entries = []domain.StageEntry{}
	}
	return entries, rows.Err()
}
