package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Classification controls whether the NDA click-wrap gate applies.
type Classification string

const (
	ClassificationInternal   Classification = "internal"
	ClassificationClassified Classification = "classified"
)

// Secret is a trade-secret record. There is no approval phase: sealing is a
// direct draft -> sealed transition that snapshots the content into an
// immutable version. Content is stored encrypted at rest.
type Secret struct {
	ID               uuid.UUID
	OrgID            uuid.UUID
	Title            string
	Content          string // encrypted while at rest, plaintext in memory
	Classification   Classification
	Status           Status
	CurrentVersionID *uuid.UUID // nil until first seal
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SecretVersion is one immutable snapshot of secret content. Rows are never
// updated or deleted; the hash must always be recomputable from the stored
// canonical payload.
type SecretVersion struct {
	ID               uuid.UUID
	SecretID         uuid.UUID
	OrgID            uuid.UUID
	VersionNumber    int // monotonic per secret, starting at 1
	ContentCanonical []byte
	SHA256Hash       string // hex digest over ContentCanonical
	TSAToken         []byte // RFC 3161 token, optional
	TSASerial        string
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
}

// AccessGrant records that a principal acknowledged the NDA for a secret.
// Acceptance is per (secret, user) and persists across sessions.
type AccessGrant struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	SecretID      uuid.UUID
	UserID        uuid.UUID
	NDAAcceptedAt time.Time
	CreatedAt     time.Time
}

type SecretRepository interface {
	Create(ctx context.Context, s *Secret) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Secret, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Secret, error)
	Update(ctx context.Context, s *Secret) error
	// MarkSealed flips status, repoints current_version_id and stamps
	// updated_at in one statement.
	MarkSealed(ctx context.Context, orgID, id uuid.UUID, versionID uuid.UUID) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type SecretVersionRepository interface {
	// CreateNext inserts the version with an atomically allocated
	// version_number (max existing + 1, starting at 1). The allocated number
	// and generated ID are set on v before return. Allocation and insert
	// happen in one transaction holding a row lock on the secret so
	// concurrent seals cannot produce duplicate numbers.
	CreateNext(ctx context.Context, v *SecretVersion) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*SecretVersion, error)
	GetByNumber(ctx context.Context, orgID, secretID uuid.UUID, number int) (*SecretVersion, error)
	ListBySecret(ctx context.Context, orgID, secretID uuid.UUID) ([]*SecretVersion, error)
}

type AccessGrantRepository interface {
	// Upsert records acknowledgement; repeated acknowledgement by the same
	// user is idempotent.
	Upsert(ctx context.Context, g *AccessGrant) error
	Get(ctx context.Context, orgID, secretID, userID uuid.UUID) (*AccessGrant, error)
	ListBySecret(ctx context.Context, orgID, secretID uuid.UUID) ([]*AccessGrant, error)
}
