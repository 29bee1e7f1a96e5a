package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/boardvault/internal/domain"
)

// AuditRepo is append-only: there is deliberately no update or delete.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Record(ctx context.Context, e *domain.AuditEvent) error {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: marshal metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_log (id, org_id, actor_id, action, entity_kind, entity_id, version_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.OrgID, e.ActorID, e.Action, e.EntityKind, e.EntityID,
		e.VersionID, metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: %w", err)
	}

	return nil
}

func (r *AuditRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.AuditEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, actor_id, action, entity_kind, entity_id, version_id, metadata, created_at
		 FROM audit_log WHERE org_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByOrg: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows, "auditRepo.ListByOrg")
}

func (r *AuditRepo) ListByEntity(ctx context.Context, orgID uuid.UUID, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.AuditEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, actor_id, action, entity_kind, entity_id, version_id, metadata, created_at
		 FROM audit_log WHERE org_id = $1 AND entity_kind = $2 AND entity_id = $3
		 ORDER BY created_at DESC`,
		orgID, kind, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByEntity: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows, "auditRepo.ListByEntity")
}

func scanAuditEvents(rows pgx.Rows, caller string) ([]*domain.AuditEvent, error) {
	var events []*domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var metadata []byte

		if err := rows.Scan(
			&e.ID, &e.OrgID, &e.ActorID, &e.Action, &e.EntityKind,
			&e.EntityID, &e.VersionID, &metadata, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return nil, fmt.Errorf("%s: unmarshal metadata: %w", caller, err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return events, nil
}
