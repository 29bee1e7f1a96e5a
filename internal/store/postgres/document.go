package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/boardvault/internal/domain"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Create(ctx context.Context, d *domain.Document) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (id, org_id, name, content_type, size_bytes, storage_path, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.OrgID, d.Name, d.ContentType, d.SizeBytes, d.StoragePath, d.UploadedBy, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}

	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Document, error) {
	var d domain.Document

	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, name, content_type, size_bytes, storage_path, uploaded_by, created_at
		 FROM documents WHERE org_id = $1 AND id = $2`,
		orgID, id,
	).Scan(&d.ID, &d.OrgID, &d.Name, &d.ContentType, &d.SizeBytes, &d.StoragePath, &d.UploadedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("documentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}

	return &d, nil
}

func (r *DocumentRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, name, content_type, size_bytes, storage_path, uploaded_by, created_at
		 FROM documents WHERE org_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.List: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var d domain.Document

		err = rows.Scan(&d.ID, &d.OrgID, &d.Name, &d.ContentType, &d.SizeBytes, &d.StoragePath, &d.UploadedBy, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("documentRepo.List: scan: %w", err)
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("documentRepo.List: rows: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM documents WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("documentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
