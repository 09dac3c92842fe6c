package postgres

import (
	"context"
	"go-hr-tracker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepo struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates the read-only aggregation repository
func NewStatsRepository(db *pgxpool.Pool) domain.StatsRepository {
	return &statsRepo{db: db}
}

// CountByStage counts current-state resumes grouped by current_stage
func (r *statsRepo) CountByStage(ctx context.Context, scope domain.Scope) (map[string]int64, error) {
	query := `
		SELECT current_stage, COUNT(*)
		FROM resumes
		GROUP BY current_stage
		ORDER BY current_stage`
	args := []interface{}{}
	if !scope.All() {
		query = `
		SELECT current_stage, COUNT(*)
		FROM resumes
		WHERE uploaded_by = $1
		GROUP BY current_stage
		ORDER BY current_stage`
		args = append(args, *scope.OwnerID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var stage string
		var count int64
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[stage] = count
	}
	return counts, rows.Err()
}

// CountBySource counts resumes grouped by source. Resumes with no source
// land in the empty-string bucket.
func (r *statsRepo) CountBySource(ctx context.Context, scope domain.Scope) (map[string]int64, error) {
	query := `
		SELECT COALESCE(source, ''), COUNT(*)
		FROM resumes
		GROUP BY COALESCE(source, '')
		ORDER BY COALESCE(source, '')`
	args := []interface{}{}
	if !scope.All() {
		query = `
		SELECT COALESCE(source, ''), COUNT(*)
		FROM resumes
		WHERE uploaded_by = $1
		GROUP BY COALESCE(source, '')
		ORDER BY COALESCE(source, '')`
		args = append(args, *scope.OwnerID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		counts[source] = count
	}
	return counts, rows.Err()
}

// AvgStageDurationSeconds averages true per-resume dwell time by stage
// label. Each ledger entry's dwell is the gap to the next entry of the same
// resume; the open (latest) entry is measured up to NOW().
func (r *statsRepo) AvgStageDurationSeconds(ctx context.Context, scope domain.Scope) (map[string]float64, error) {
	ownerClause := ""
	args := []interface{}{}
	if !scope.All() {
		ownerClause = "WHERE r.uploaded_by = $1"
		args = append(args, *scope.OwnerID)
	}

	query := `
		SELECT stage, AVG(EXTRACT(EPOCH FROM (COALESCE(next_at, NOW()) - entered_at)))
		FROM (
			SELECT rs.stage, rs.entered_at,
			       LEAD(rs.entered_at) OVER (PARTITION BY rs.resume_id ORDER BY rs.entered_at ASC, rs.id ASC) AS next_at
			FROM resume_stages rs
			JOIN resumes r ON rs.resume_id = r.id
			` + ownerClause + `
		) dwell
		GROUP BY stage
		ORDER BY stage`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var stage string
		var avg float64
		if err := rows.Scan(&stage, &avg); err != nil {
			return nil, err
		}
		averages[stage] = avg
	}
	return averages, rows.Err()
}

// AvgCandidatesPerVacancy is the mean resume count over all vacancies.
// Vacancies with zero resumes count as zero; zero vacancies yields 0.
func (r *statsRepo) AvgCandidatesPerVacancy(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(cnt), 0)
		FROM (
			SELECT COUNT(r.id) AS cnt
			FROM vacancies v
			LEFT JOIN resumes r ON r.vacancy_id = v.id
			GROUP BY v.id
		) per_vacancy`).Scan(&avg)
	return avg, err
}

// SLAViolationCount counts resumes whose time in their current stage
// exceeds the configured max_days. The inner join on sla_settings keeps
// unconfigured stages out entirely; the clock starts at the latest ledger
// entry for the resume.
func (r *statsRepo) SLAViolationCount(ctx context.Context, scope domain.Scope) (int64, error) {
	ownerClause := ""
	args := []interface{}{}
	if !scope.All() {
		ownerClause = "AND r.uploaded_by = $1"
		args = append(args, *scope.OwnerID)
	}

	query := `
		SELECT COUNT(*)
		FROM resumes r
		JOIN sla_settings s ON s.stage = r.current_stage
		JOIN LATERAL (
			SELECT entered_at
			FROM resume_stages
			WHERE resume_id = r.id
			ORDER BY entered_at DESC, id DESC
			LIMIT 1
		) last_entry ON TRUE
		WHERE last_entry.entered_at + make_interval(days => s.max_days) < NOW()
		` + ownerClause

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}
