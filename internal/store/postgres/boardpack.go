package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/boardvault/internal/domain"
)

type BoardPackRepo struct {
	pool *pgxpool.Pool
}

func NewBoardPackRepo(pool *pgxpool.Pool) *BoardPackRepo {
	return &BoardPackRepo{pool: pool}
}

const boardPackColumns = `id, org_id, title, meeting_date, agenda, body, status,
	approved_by, content_hash, published_at, created_by, created_at, updated_at`

func (r *BoardPackRepo) Create(ctx context.Context, b *domain.BoardPack) error {
	agenda, err := json.Marshal(b.Agenda)
	if err != nil {
		return fmt.Errorf("boardPackRepo.Create: marshal agenda: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO board_packs (id, org_id, title, meeting_date, agenda, body, status, approved_by, content_hash, published_at, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID, b.OrgID, b.Title, b.MeetingDate, agenda, b.Body, b.Status,
		b.ApprovedBy, b.ContentHash, b.PublishedAt, b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardPackRepo.Create: %w", err)
	}

	return nil
}

func scanBoardPack(row pgx.Row, b *domain.BoardPack) error {
	var agenda []byte

	err := row.Scan(
		&b.ID, &b.OrgID, &b.Title, &b.MeetingDate, &agenda, &b.Body, &b.Status,
		&b.ApprovedBy, &b.ContentHash, &b.PublishedAt, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(agenda, &b.Agenda); err != nil {
		return fmt.Errorf("unmarshal agenda: %w", err)
	}

	return nil
}

func (r *BoardPackRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.BoardPack, error) {
	var b domain.BoardPack

	row := r.pool.QueryRow(ctx,
		`SELECT `+boardPackColumns+` FROM board_packs WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	err := scanBoardPack(row, &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardPackRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardPackRepo.GetByID: %w", err)
	}

	return &b, nil
}

func (r *BoardPackRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.BoardPack, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+boardPackColumns+` FROM board_packs WHERE org_id = $1
		 ORDER BY meeting_date DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("boardPackRepo.List: %w", err)
	}
	defer rows.Close()

	var packs []*domain.BoardPack
	for rows.Next() {
		var b domain.BoardPack
		if err := scanBoardPack(rows, &b); err != nil {
			return nil, fmt.Errorf("boardPackRepo.List: scan: %w", err)
		}
		packs = append(packs, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardPackRepo.List: rows: %w", err)
	}

	return packs, nil
}

func (r *BoardPackRepo) Update(ctx context.Context, b *domain.BoardPack) error {
	agenda, err := json.Marshal(b.Agenda)
	if err != nil {
		return fmt.Errorf("boardPackRepo.Update: marshal agenda: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE board_packs SET title = $1, meeting_date = $2, agenda = $3, body = $4, updated_at = $5
		 WHERE org_id = $6 AND id = $7 AND published_at IS NULL`,
		b.Title, b.MeetingDate, agenda, b.Body, b.UpdatedAt, b.OrgID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardPackRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardPackRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BoardPackRepo) MarkApproved(ctx context.Context, orgID, id uuid.UUID, approvedBy uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE board_packs SET status = $1, approved_by = $2, updated_at = now()
		 WHERE org_id = $3 AND id = $4 AND approved_by IS NULL`,
		domain.StatusApproved, approvedBy, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("boardPackRepo.MarkApproved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardPackRepo.MarkApproved: %w", domain.ErrInvalidTransition)
	}

	return nil
}

func (r *BoardPackRepo) MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE board_packs SET status = $1, content_hash = $2, published_at = $3, updated_at = now()
		 WHERE org_id = $4 AND id = $5 AND published_at IS NULL`,
		domain.StatusPublished, contentHash, publishedAt, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("boardPackRepo.MarkPublished: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardPackRepo.MarkPublished: %w", domain.ErrInvalidTransition)
	}

	return nil
}

func (r *BoardPackRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM board_packs WHERE org_id = $1 AND id = $2 AND published_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return fmt.Errorf("boardPackRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardPackRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
