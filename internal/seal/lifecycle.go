package seal

import (
	"slices"

	"github.com/oakline/boardvault/internal/domain"
)

// Per-kind transition tables. One shared status set, four policies:
//
//	decision/report: draft -> pending_approval -> {approved|rejected};
//	                 approved -> published; rejected -> pending_approval
//	                 (edit and resubmit).
//	board pack:      draft -> approved -> published (single authorized
//	                 approval action, no request cycle).
//	secret:          draft -> sealed directly; sealed -> superseded when a
//	                 replacement takes over.
func transitions(kind domain.EntityKind) map[domain.Status][]domain.Status {
	switch kind {
	case domain.KindDecision, domain.KindReport:
		return map[domain.Status][]domain.Status{
			domain.StatusDraft:           {domain.StatusPendingApproval},
			domain.StatusPendingApproval: {domain.StatusApproved, domain.StatusRejected},
			domain.StatusApproved:        {domain.StatusPublished},
			domain.StatusRejected:        {domain.StatusPendingApproval},
		}
	case domain.KindBoardPack:
		return map[domain.Status][]domain.Status{
			domain.StatusDraft:    {domain.StatusApproved},
			domain.StatusApproved: {domain.StatusPublished},
		}
	case domain.KindSecret:
		return map[domain.Status][]domain.Status{
			domain.StatusDraft:  {domain.StatusSealed},
			domain.StatusSealed: {domain.StatusSuperseded},
		}
	default:
		return nil
	}
}

// CanTransition reports whether kind permits moving from one status to
// another.
func CanTransition(kind domain.EntityKind, from, to domain.Status) bool {
	allowed, ok := transitions(kind)[from]
	if !ok {
		return false
	}
	return slices.Contains(allowed, to)
}

// Deletable reports whether an entity in the given status may be hard
// deleted. Published and sealed entities are never deletable; the record is
// the evidence.
func Deletable(status domain.Status) bool {
	return !status.Terminal()
}
