package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

// CrashReportRepository stores crash reports append-only.
type CrashReportRepository struct {
	pool *pgxpool.Pool
}

func NewCrashReportRepository(pool *pgxpool.Pool) *CrashReportRepository {
	return &CrashReportRepository{pool: pool}
}

func (r *CrashReportRepository) Store(ctx context.Context, c *entity.CrashReport) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO crash_reports (user_id, os_type, title, report, app_version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.UserID, c.OSType, c.Title, c.Report, c.AppVersion)

	return row.Scan(&c.ID, &c.CreatedAt)
}

var _ repository.CrashReportRepository = (*CrashReportRepository)(nil)
