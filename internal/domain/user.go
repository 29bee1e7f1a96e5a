package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	Email        string
	PasswordHash string // argon2id
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the explicit principal value for this user, passed into
// every state-machine operation.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, OrgID: u.OrgID, Role: u.Role}
}

type APIKey struct {
	ID         uuid.UUID
	OrgID      uuid.UUID
	UserID     uuid.UUID
	Name       string
	KeyHash    string // SHA-256
	Prefix     string // first 8 chars for identification
	Scopes     []string
	LastUsedAt *time.Time // nullable
	ExpiresAt  *time.Time // nullable
	CreatedAt  time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdateRole(ctx context.Context, orgID, id uuid.UUID, role Role) error
	List(ctx context.Context, orgID uuid.UUID) ([]*User, error)

	// API keys
	CreateAPIKey(ctx context.Context, key *APIKey) error
	GetAPIKeyByPrefix(ctx context.Context, orgID uuid.UUID, prefix string) (*APIKey, error)
	ListAPIKeys(ctx context.Context, orgID, userID uuid.UUID) ([]*APIKey, error)
	DeleteAPIKey(ctx context.Context, id uuid.UUID) error
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
}
