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

type DecisionRepo struct {
	pool *pgxpool.Pool
}

func NewDecisionRepo(pool *pgxpool.Pool) *DecisionRepo {
	return &DecisionRepo{pool: pool}
}

const decisionColumns = `id, org_id, title, status, context, decision, consequences,
	content_hash, published_at, created_by, created_at, updated_at`

func (r *DecisionRepo) Create(ctx context.Context, d *domain.Decision) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO decisions (id, org_id, title, status, context, decision, consequences, content_hash, published_at, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.OrgID, d.Title, d.Status, d.Context, d.Decision, d.Consequences,
		d.ContentHash, d.PublishedAt, d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("decisionRepo.Create: %w", err)
	}

	return nil
}

func scanDecision(row pgx.Row, d *domain.Decision) error {
	return row.Scan(
		&d.ID, &d.OrgID, &d.Title, &d.Status, &d.Context, &d.Decision, &d.Consequences,
		&d.ContentHash, &d.PublishedAt, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
}

func (r *DecisionRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Decision, error) {
	var d domain.Decision

	row := r.pool.QueryRow(ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	err := scanDecision(row, &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decisionRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("decisionRepo.GetByID: %w", err)
	}

	return &d, nil
}

func (r *DecisionRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Decision, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE org_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("decisionRepo.List: %w", err)
	}
	defer rows.Close()

	var decisions []*domain.Decision
	for rows.Next() {
		var d domain.Decision
		if err := scanDecision(rows, &d); err != nil {
			return nil, fmt.Errorf("decisionRepo.List: scan: %w", err)
		}
		decisions = append(decisions, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("decisionRepo.List: rows: %w", err)
	}

	return decisions, nil
}

// Update replaces content fields. The status guard keeps a concurrently
// published row from being overwritten.
func (r *DecisionRepo) Update(ctx context.Context, d *domain.Decision) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE decisions SET title = $1, context = $2, decision = $3, consequences = $4, updated_at = $5
		 WHERE org_id = $6 AND id = $7 AND published_at IS NULL`,
		d.Title, d.Context, d.Decision, d.Consequences, d.UpdatedAt, d.OrgID, d.ID,
	)
	if err != nil {
		return fmt.Errorf("decisionRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decisionRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *DecisionRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status domain.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE decisions SET status = $1, updated_at = now() WHERE org_id = $2 AND id = $3`,
		status, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("decisionRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decisionRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

// MarkPublished stamps hash and publish time. The published_at IS NULL
// guard makes a concurrent double publish lose instead of double-writing.
func (r *DecisionRepo) MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE decisions SET status = $1, content_hash = $2, published_at = $3, updated_at = now()
		 WHERE org_id = $4 AND id = $5 AND published_at IS NULL`,
		domain.StatusPublished, contentHash, publishedAt, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("decisionRepo.MarkPublished: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decisionRepo.MarkPublished: %w", domain.ErrInvalidTransition)
	}

	return nil
}

func (r *DecisionRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM decisions WHERE org_id = $1 AND id = $2 AND published_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return fmt.Errorf("decisionRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decisionRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
