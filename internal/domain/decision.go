package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Decision is a board decision record. Content fields (Title, Context,
// Decision, Consequences) are frozen once the decision is published.
type Decision struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	Title        string
	Status       Status
	Context      string // problem statement
	Decision     string
	Consequences string
	ContentHash  string     // set on publish
	PublishedAt  *time.Time // nil until published
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DecisionRepository interface {
	Create(ctx context.Context, d *Decision) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Decision, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Decision, error)
	Update(ctx context.Context, d *Decision) error
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status Status) error
	// MarkPublished stamps the content hash and publish time. The store
	// guards on published_at being null so a second publish never lands.
	MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
