package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Report is an investor/board report moving through the full
// draft -> pending_approval -> approved -> published cycle.
type Report struct {
	ID              uuid.UUID
	OrgID           uuid.UUID
	Title           string
	Period          string // e.g. "2026-Q2"
	Body            string // markdown
	Status          Status
	RejectionReason string // last rejection, kept as history
	ContentHash     string
	PublishedAt     *time.Time
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Report, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Report, error)
	Update(ctx context.Context, r *Report) error
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status Status, rejectionReason string) error
	MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
