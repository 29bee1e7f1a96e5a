package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the resolution state of a single approval request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ApprovalRequest links a sealable entity to one designated reviewer. Once
// resolved it is immutable; re-review means a new request.
type ApprovalRequest struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	EntityKind  EntityKind
	EntityID    uuid.UUID
	ReviewerID  uuid.UUID
	RequestedBy uuid.UUID
	Status      ApprovalStatus
	Notes       string
	ResolvedAt  *time.Time // nil while pending
	CreatedAt   time.Time
}

// Resolved reports whether the request has reached a terminal state.
func (a *ApprovalRequest) Resolved() bool {
	return a.Status != ApprovalPending
}

type ApprovalRepository interface {
	Create(ctx context.Context, a *ApprovalRequest) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*ApprovalRequest, error)
	ListByEntity(ctx context.Context, orgID uuid.UUID, kind EntityKind, entityID uuid.UUID) ([]*ApprovalRequest, error)
	ListPendingForReviewer(ctx context.Context, orgID, reviewerID uuid.UUID) ([]*ApprovalRequest, error)
	// Resolve flips a pending request to approved/rejected. The store guards
	// on status = 'pending' and returns ErrInvalidTransition when the
	// request was already resolved.
	Resolve(ctx context.Context, orgID, id uuid.UUID, status ApprovalStatus, notes string, resolvedAt time.Time) error
}
