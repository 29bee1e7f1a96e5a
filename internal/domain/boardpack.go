package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BoardPack is a meeting pack. Approval is a single authorized action
// rather than a request/response cycle: draft -> approved -> published.
type BoardPack struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	Title       string
	MeetingDate time.Time
	Agenda      []string
	Body        string // markdown
	Status      Status
	ApprovedBy  *uuid.UUID // nil until approved
	ContentHash string
	PublishedAt *time.Time
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BoardPackRepository interface {
	Create(ctx context.Context, b *BoardPack) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*BoardPack, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*BoardPack, error)
	Update(ctx context.Context, b *BoardPack) error
	MarkApproved(ctx context.Context, orgID, id uuid.UUID, approvedBy uuid.UUID) error
	MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
