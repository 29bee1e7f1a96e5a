package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit action kinds. Every successful create/view/seal/delete of a
// sealable entity produces exactly one event.
const (
	AuditActionCreate    = "create"
	AuditActionUpdate    = "update"
	AuditActionView      = "view"
	AuditActionSubmit    = "submit"
	AuditActionApprove   = "approve"
	AuditActionReject    = "reject"
	AuditActionPublish   = "publish"
	AuditActionSeal      = "seal"
	AuditActionDelete    = "delete"
	AuditActionNDAAccept = "nda_accept"
)

// AuditEvent is one append-only record of an actor action. Events are never
// updated or deleted.
type AuditEvent struct {
	ID         uuid.UUID
	OrgID      uuid.UUID
	ActorID    uuid.UUID
	Action     string
	EntityKind EntityKind
	EntityID   uuid.UUID
	VersionID  *uuid.UUID // set for seal events
	Metadata   map[string]any
	CreatedAt  time.Time
}

type AuditRepository interface {
	Record(ctx context.Context, e *AuditEvent) error
	ListByOrg(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*AuditEvent, error)
	// ListByEntity returns events reverse-chronologically.
	ListByEntity(ctx context.Context, orgID uuid.UUID, kind EntityKind, entityID uuid.UUID) ([]*AuditEvent, error)
}
