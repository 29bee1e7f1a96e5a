package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/boardvault/internal/domain"
)

type OrgRepo struct {
	pool *pgxpool.Pool
}

func NewOrgRepo(pool *pgxpool.Pool) *OrgRepo {
	return &OrgRepo{pool: pool}
}

func (r *OrgRepo) Create(ctx context.Context, o *domain.Organization) error {
	settings, err := json.Marshal(o.Settings)
	if err != nil {
		return fmt.Errorf("orgRepo.Create: marshal settings: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, slug, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Name, o.Slug, settings, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("orgRepo.Create: %w", err)
	}

	return nil
}

func (r *OrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return r.getBy(ctx, "orgRepo.GetByID", `id = $1`, id)
}

func (r *OrgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.getBy(ctx, "orgRepo.GetBySlug", `slug = $1`, slug)
}

func (r *OrgRepo) getBy(ctx context.Context, caller, where string, arg any) (*domain.Organization, error) {
	var o domain.Organization
	var settings []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, settings, created_at, updated_at
		 FROM organizations WHERE `+where, arg,
	).Scan(&o.ID, &o.Name, &o.Slug, &settings, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	if err := json.Unmarshal(settings, &o.Settings); err != nil {
		return nil, fmt.Errorf("%s: unmarshal settings: %w", caller, err)
	}

	return &o, nil
}

func (r *OrgRepo) Update(ctx context.Context, o *domain.Organization) error {
	settings, err := json.Marshal(o.Settings)
	if err != nil {
		return fmt.Errorf("orgRepo.Update: marshal settings: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET name = $1, slug = $2, settings = $3, updated_at = now()
		 WHERE id = $4`,
		o.Name, o.Slug, settings, o.ID,
	)
	if err != nil {
		return fmt.Errorf("orgRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orgRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrgRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, settings, created_at, updated_at
		 FROM organizations ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("orgRepo.List: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		var o domain.Organization
		var settings []byte

		err = rows.Scan(&o.ID, &o.Name, &o.Slug, &settings, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("orgRepo.List: scan: %w", err)
		}
		if err := json.Unmarshal(settings, &o.Settings); err != nil {
			return nil, fmt.Errorf("orgRepo.List: unmarshal settings: %w", err)
		}
		orgs = append(orgs, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orgRepo.List: rows: %w", err)
	}

	return orgs, nil
}
