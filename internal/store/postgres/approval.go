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

type ApprovalRepo struct {
	pool *pgxpool.Pool
}

func NewApprovalRepo(pool *pgxpool.Pool) *ApprovalRepo {
	return &ApprovalRepo{pool: pool}
}

const approvalColumns = `id, org_id, entity_kind, entity_id, reviewer_id, requested_by,
	status, notes, resolved_at, created_at`

func (r *ApprovalRepo) Create(ctx context.Context, a *domain.ApprovalRequest) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO approval_requests (id, org_id, entity_kind, entity_id, reviewer_id, requested_by, status, notes, resolved_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.OrgID, a.EntityKind, a.EntityID, a.ReviewerID, a.RequestedBy,
		a.Status, a.Notes, a.ResolvedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("approvalRepo.Create: %w", err)
	}

	return nil
}

func scanApproval(row pgx.Row, a *domain.ApprovalRequest) error {
	return row.Scan(
		&a.ID, &a.OrgID, &a.EntityKind, &a.EntityID, &a.ReviewerID, &a.RequestedBy,
		&a.Status, &a.Notes, &a.ResolvedAt, &a.CreatedAt,
	)
}

func (r *ApprovalRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.ApprovalRequest, error) {
	var a domain.ApprovalRequest

	row := r.pool.QueryRow(ctx,
		`SELECT `+approvalColumns+` FROM approval_requests WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	err := scanApproval(row, &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("approvalRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("approvalRepo.GetByID: %w", err)
	}

	return &a, nil
}

func (r *ApprovalRepo) ListByEntity(ctx context.Context, orgID uuid.UUID, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.ApprovalRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+approvalColumns+` FROM approval_requests
		 WHERE org_id = $1 AND entity_kind = $2 AND entity_id = $3
		 ORDER BY created_at DESC`,
		orgID, kind, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("approvalRepo.ListByEntity: %w", err)
	}
	defer rows.Close()

	return collectApprovals(rows, "approvalRepo.ListByEntity")
}

func (r *ApprovalRepo) ListPendingForReviewer(ctx context.Context, orgID, reviewerID uuid.UUID) ([]*domain.ApprovalRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+approvalColumns+` FROM approval_requests
		 WHERE org_id = $1 AND reviewer_id = $2 AND status = $3
		 ORDER BY created_at DESC`,
		orgID, reviewerID, domain.ApprovalPending,
	)
	if err != nil {
		return nil, fmt.Errorf("approvalRepo.ListPendingForReviewer: %w", err)
	}
	defer rows.Close()

	return collectApprovals(rows, "approvalRepo.ListPendingForReviewer")
}

// Resolve flips a pending request exactly once. The status guard means a
// second resolution affects zero rows and surfaces as an invalid
// transition rather than a silent double write.
func (r *ApprovalRepo) Resolve(ctx context.Context, orgID, id uuid.UUID, status domain.ApprovalStatus, notes string, resolvedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE approval_requests SET status = $1, notes = $2, resolved_at = $3
		 WHERE org_id = $4 AND id = $5 AND status = $6`,
		status, notes, resolvedAt, orgID, id, domain.ApprovalPending,
	)
	if err != nil {
		return fmt.Errorf("approvalRepo.Resolve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("approvalRepo.Resolve: %w", domain.ErrInvalidTransition)
	}

	return nil
}

func collectApprovals(rows pgx.Rows, caller string) ([]*domain.ApprovalRequest, error) {
	var requests []*domain.ApprovalRequest
	for rows.Next() {
		var a domain.ApprovalRequest
		if err := scanApproval(rows, &a); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		requests = append(requests, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return requests, nil
}
