package domain

import "github.com/google/uuid"

// ChangeOp is the kind of mutation carried on the org change feed.
type ChangeOp string

const (
	ChangeOpInsert ChangeOp = "insert"
	ChangeOpUpdate ChangeOp = "update"
	ChangeOpDelete ChangeOp = "delete"
)

// ChangeEvent is broadcast to org subscribers on every entity mutation.
// Delivery is eventual and may duplicate or reorder; consumers must merge
// with upsert-by-id semantics.
type ChangeEvent struct {
	Kind     EntityKind `json:"kind"`
	EntityID uuid.UUID  `json:"entity_id"`
	Op       ChangeOp   `json:"op"`
	Status   Status     `json:"status,omitempty"`
}
