package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oakline/boardvault/internal/domain"
)

// engineError maps engine sentinel errors onto HTTP problem responses.
// Lifecycle violations surface as 409 so clients can distinguish them from
// validation failures. An integrity mismatch means stored content no longer
// matches its hash, which is a server-side alarm, not a client conflict.
func engineError(resource string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(resource + " not found")
	case errors.Is(err, domain.ErrPermissionDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrIntegrityMismatch):
		return huma.Error500InternalServerError(resource+" failed integrity verification", err)
	default:
		return huma.Error500InternalServerError(resource+" operation failed", err)
	}
}
