package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/boardvault/internal/domain"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

const reportColumns = `id, org_id, title, period, body, status, rejection_reason,
	content_hash, published_at, created_by, created_at, updated_at`

func (r *ReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reports (id, org_id, title, period, body, status, rejection_reason, content_hash, published_at, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rep.ID, rep.OrgID, rep.Title, rep.Period, rep.Body, rep.Status, rep.RejectionReason,
		rep.ContentHash, rep.PublishedAt, rep.CreatedBy, rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}

	return nil
}

func scanReport(row pgx.Row, rep *domain.Report) error {
	return row.Scan(
		&rep.ID, &rep.OrgID, &rep.Title, &rep.Period, &rep.Body, &rep.Status, &rep.RejectionReason,
		&rep.ContentHash, &rep.PublishedAt, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt,
	)
}

func (r *ReportRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Report, error) {
	var rep domain.Report

	row := r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	err := scanReport(row, &rep)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reportRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}

	return &rep, nil
}

func (r *ReportRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Report, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE org_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.List: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		var rep domain.Report
		if err := scanReport(rows, &rep); err != nil {
			return nil, fmt.Errorf("reportRepo.List: scan: %w", err)
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reportRepo.List: rows: %w", err)
	}

	return reports, nil
}

func (r *ReportRepo) Update(ctx context.Context, rep *domain.Report) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reports SET title = $1, period = $2, body = $3, updated_at = $4
		 WHERE org_id = $5 AND id = $6 AND published_at IS NULL`,
		rep.Title, rep.Period, rep.Body, rep.UpdatedAt, rep.OrgID, rep.ID,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status domain.Status, rejectionReason string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reports SET status = $1, rejection_reason = $2, updated_at = now()
		 WHERE org_id = $3 AND id = $4`,
		status, rejectionReason, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ReportRepo) MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reports SET status = $1, content_hash = $2, published_at = $3, updated_at = now()
		 WHERE org_id = $4 AND id = $5 AND published_at IS NULL`,
		domain.StatusPublished, contentHash, publishedAt, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.MarkPublished: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.MarkPublished: %w", domain.ErrInvalidTransition)
	}

	return nil
}

func (r *ReportRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reports WHERE org_id = $1 AND id = $2 AND published_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
