package postgres

import (
	"context"
	"go-hr-tracker/internal/domain"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type slaRepo struct {
	db *pgxpool.Pool
}

func NewSLARepository(db *pgxpool.Pool) domain.SLARepository {
	return &slaRepo{db: db}
}

// Upsert inserts the setting or, when the stage already has one, overwrites
// max_days/set_by/set_at. Stage names are unique; no duplicate rows.
func (r *slaRepo) Upsert(ctx context.Context, setting *domain.SLASetting) error {
	if setting.SetAt.IsZero() {
		setting.SetAt = time.Now()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO sla_settings (stage, max_days, set_by, set_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stage) DO UPDATE
		SET max_days = EXCLUDED.max_days, set_by = EXCLUDED.set_by, set_at = EXCLUDED.set_at
		RETURNING id`,
		setting.Stage, setting.MaxDays, setting.SetBy, setting.SetAt,
	).Scan(&setting.ID)
}

func (r *slaRepo) Fetch(ctx context.Context) ([]domain.SLASetting, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, stage, max_days, set_by, set_at
		FROM sla_settings
		ORDER BY stage ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.SLASetting
	for rows.Next() {
		var s domain.SLASetting
		if err := rows.Scan(&s.ID, &s.Stage, &s.MaxDays, &s.SetBy, &s.SetAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	if settings == nil {
		settings = []domain.SLASetting{}
	}
	return settings, rows.Err()
}
