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

type SecretRepo struct {
	pool *pgxpool.Pool
}

func NewSecretRepo(pool *pgxpool.Pool) *SecretRepo {
	return &SecretRepo{pool: pool}
}

const secretColumns = `id, org_id, title, content, classification, status,
	current_version_id, created_by, created_at, updated_at`

func (r *SecretRepo) Create(ctx context.Context, s *domain.Secret) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO secrets (id, org_id, title, content, classification, status, current_version_id, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.OrgID, s.Title, s.Content, s.Classification, s.Status,
		s.CurrentVersionID, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("secretRepo.Create: %w", err)
	}

	return nil
}

func scanSecret(row pgx.Row, s *domain.Secret) error {
	return row.Scan(
		&s.ID, &s.OrgID, &s.Title, &s.Content, &s.Classification, &s.Status,
		&s.CurrentVersionID, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
}

func (r *SecretRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Secret, error) {
	var s domain.Secret

	row := r.pool.QueryRow(ctx,
		`SELECT `+secretColumns+` FROM secrets WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	err := scanSecret(row, &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("secretRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("secretRepo.GetByID: %w", err)
	}

	return &s, nil
}

func (r *SecretRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Secret, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+secretColumns+` FROM secrets WHERE org_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("secretRepo.List: %w", err)
	}
	defer rows.Close()

	var secrets []*domain.Secret
	for rows.Next() {
		var s domain.Secret
		if err := scanSecret(rows, &s); err != nil {
			return nil, fmt.Errorf("secretRepo.List: scan: %w", err)
		}
		secrets = append(secrets, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("secretRepo.List: rows: %w", err)
	}

	return secrets, nil
}

func (r *SecretRepo) Update(ctx context.Context, s *domain.Secret) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE secrets SET title = $1, content = $2, classification = $3, status = $4, updated_at = $5
		 WHERE org_id = $6 AND id = $7`,
		s.Title, s.Content, s.Classification, s.Status, s.UpdatedAt, s.OrgID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("secretRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("secretRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SecretRepo) MarkSealed(ctx context.Context, orgID, id uuid.UUID, versionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE secrets SET status = $1, current_version_id = $2, updated_at = now()
		 WHERE org_id = $3 AND id = $4`,
		domain.StatusSealed, versionID, orgID, id,
	)
	if err != nil {
		return fmt.Errorf("secretRepo.MarkSealed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("secretRepo.MarkSealed: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SecretRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM secrets WHERE org_id = $1 AND id = $2 AND status = $3`,
		orgID, id, domain.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("secretRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("secretRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// SecretVersionRepo persists immutable secret snapshots. Rows are insert
// only; there is no update or delete statement in this file by design of
// the schema, not just convention.
type SecretVersionRepo struct {
	pool *pgxpool.Pool
}

func NewSecretVersionRepo(pool *pgxpool.Pool) *SecretVersionRepo {
	return &SecretVersionRepo{pool: pool}
}

const versionColumns = `id, secret_id, org_id, version_number, content_canonical,
	sha256_hash, tsa_token, tsa_serial, created_by, created_at`

// CreateNext allocates the next version number and inserts in one
// transaction. The row lock on the secret serializes concurrent seals so
// two of them cannot both read the same max and insert duplicates.
func (r *SecretVersionRepo) CreateNext(ctx context.Context, v *domain.SecretVersion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("secretVersionRepo.CreateNext: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var secretID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM secrets WHERE org_id = $1 AND id = $2 FOR UPDATE`,
		v.OrgID, v.SecretID,
	).Scan(&secretID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("secretVersionRepo.CreateNext: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("secretVersionRepo.CreateNext: lock secret: %w", err)
	}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM secret_versions WHERE secret_id = $1`,
		v.SecretID,
	).Scan(&v.VersionNumber)
	if err != nil {
		return fmt.Errorf("secretVersionRepo.CreateNext: next number: %w", err)
	}

	v.ID = uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO secret_versions (id, secret_id, org_id, version_number, content_canonical, sha256_hash, tsa_token, tsa_serial, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.SecretID, v.OrgID, v.VersionNumber, v.ContentCanonical,
		v.SHA256Hash, v.TSAToken, v.TSASerial, v.CreatedBy, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("secretVersionRepo.CreateNext: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("secretVersionRepo.CreateNext: commit: %w", err)
	}

	return nil
}

func scanVersion(row pgx.Row, v *domain.SecretVersion) error {
	return row.Scan(
		&v.ID, &v.SecretID, &v.OrgID, &v.VersionNumber, &v.ContentCanonical,
		&v.SHA256Hash, &v.TSAToken, &v.TSASerial, &v.CreatedBy, &v.CreatedAt,
	)
}

func (r *SecretVersionRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.SecretVersion, error) {
	var v domain.SecretVersion

	row := r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM secret_versions WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	err := scanVersion(row, &v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("secretVersionRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("secretVersionRepo.GetByID: %w", err)
	}

	return &v, nil
}

func (r *SecretVersionRepo) GetByNumber(ctx context.Context, orgID, secretID uuid.UUID, number int) (*domain.SecretVersion, error) {
	var v domain.SecretVersion

	row := r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM secret_versions
		 WHERE org_id = $1 AND secret_id = $2 AND version_number = $3`,
		orgID, secretID, number,
	)
	err := scanVersion(row, &v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("secretVersionRepo.GetByNumber: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("secretVersionRepo.GetByNumber: %w", err)
	}

	return &v, nil
}

func (r *SecretVersionRepo) ListBySecret(ctx context.Context, orgID, secretID uuid.UUID) ([]*domain.SecretVersion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+versionColumns+` FROM secret_versions
		 WHERE org_id = $1 AND secret_id = $2
		 ORDER BY version_number DESC`,
		orgID, secretID,
	)
	if err != nil {
		return nil, fmt.Errorf("secretVersionRepo.ListBySecret: %w", err)
	}
	defer rows.Close()

	var versions []*domain.SecretVersion
	for rows.Next() {
		var v domain.SecretVersion
		if err := scanVersion(rows, &v); err != nil {
			return nil, fmt.Errorf("secretVersionRepo.ListBySecret: scan: %w", err)
		}
		versions = append(versions, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("secretVersionRepo.ListBySecret: rows: %w", err)
	}

	return versions, nil
}

// AccessGrantRepo persists NDA acknowledgements.
type AccessGrantRepo struct {
	pool *pgxpool.Pool
}

func NewAccessGrantRepo(pool *pgxpool.Pool) *AccessGrantRepo {
	return &AccessGrantRepo{pool: pool}
}

func (r *AccessGrantRepo) Upsert(ctx context.Context, g *domain.AccessGrant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO access_grants (id, org_id, secret_id, user_id, nda_accepted_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (secret_id, user_id) DO NOTHING`,
		g.ID, g.OrgID, g.SecretID, g.UserID, g.NDAAcceptedAt, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("accessGrantRepo.Upsert: %w", err)
	}

	return nil
}

func (r *AccessGrantRepo) Get(ctx context.Context, orgID, secretID, userID uuid.UUID) (*domain.AccessGrant, error) {
	var g domain.AccessGrant

	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, secret_id, user_id, nda_accepted_at, created_at
		 FROM access_grants WHERE org_id = $1 AND secret_id = $2 AND user_id = $3`,
		orgID, secretID, userID,
	).Scan(&g.ID, &g.OrgID, &g.SecretID, &g.UserID, &g.NDAAcceptedAt, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("accessGrantRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("accessGrantRepo.Get: %w", err)
	}

	return &g, nil
}

func (r *AccessGrantRepo) ListBySecret(ctx context.Context, orgID, secretID uuid.UUID) ([]*domain.AccessGrant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, secret_id, user_id, nda_accepted_at, created_at
		 FROM access_grants WHERE org_id = $1 AND secret_id = $2
		 ORDER BY created_at DESC`,
		orgID, secretID,
	)
	if err != nil {
		return nil, fmt.Errorf("accessGrantRepo.ListBySecret: %w", err)
	}
	defer rows.Close()

	var grants []*domain.AccessGrant
	for rows.Next() {
		var g domain.AccessGrant

		err = rows.Scan(&g.ID, &g.OrgID, &g.SecretID, &g.UserID, &g.NDAAcceptedAt, &g.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("accessGrantRepo.ListBySecret: scan: %w", err)
		}
		grants = append(grants, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("accessGrantRepo.ListBySecret: rows: %w", err)
	}

	return grants, nil
}
