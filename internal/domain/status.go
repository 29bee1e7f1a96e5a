package domain

import "slices"

// EntityKind names a sealable entity type.
type EntityKind string

const (
	KindDecision  EntityKind = "decision"
	KindReport    EntityKind = "report"
	KindBoardPack EntityKind = "board_pack"
	KindSecret    EntityKind = "secret"
)

// Status is the shared lifecycle status for all sealable entity kinds.
// Which transitions are legal for a given kind is decided by the seal
// package's per-kind policies.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusPublished       Status = "published"
	StatusSealed          Status = "sealed"
	StatusSuperseded      Status = "superseded"
)

// ValidStatuses is the canonical set of known lifecycle statuses.
var ValidStatuses = []Status{ //nolint:gochecknoglobals // canonical enum list
	StatusDraft,
	StatusPendingApproval,
	StatusApproved,
	StatusRejected,
	StatusPublished,
	StatusSealed,
	StatusSuperseded,
}

// ValidateStatus returns true if the given status is a known lifecycle status.
func ValidateStatus(s Status) bool {
	return slices.Contains(ValidStatuses, s)
}

// Terminal reports whether the status freezes the entity's content. A
// terminal entity may only be read, exported or superseded by a new
// version; its content-bearing fields must never be mutated again.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusSealed || s == StatusSuperseded
}
