package domain

import "errors"

// Sentinel errors for the domain layer. API handlers map these onto HTTP
// status codes; everything else is a backing-store error.
var (
	ErrNotFound          = errors.New("domain: not found")
	ErrConflict          = errors.New("domain: conflict")
	ErrUnauthorized      = errors.New("domain: unauthorized")
	ErrPermissionDenied  = errors.New("domain: permission denied")
	ErrInvalidTransition = errors.New("domain: invalid state transition")
	ErrIntegrityMismatch = errors.New("domain: content hash mismatch")
)
